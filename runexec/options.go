// Package runexec executes bytecode produced by lll.Compile on a real
// go-ethereum EVM interpreter, and optionally allows single-step inspection
// of its execution via a Debugger.
package runexec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// A Configuration carries all values that can be modified to configure a call
// to Run() or StartDebugging(). It is initially populated with sensible
// defaults and then passed to every Option for modification.
type Configuration struct {
	// vm.NewEVM()
	BlockCtx    vm.BlockContext
	TxCtx       vm.TxContext
	StateDB     vm.StateDB
	ChainConfig *params.ChainConfig
	VMConfig    vm.Config
	// EVMInterpreter.Run()
	ReadOnly bool // static call

	// Gas made available to the contract call; Run() defaults this to a
	// generous value so callers need not think about gas unless their
	// compiled program is gas-sensitive.
	Gas uint64

	// callValue is carried separately from vm.Contract construction so it
	// can be applied after all Options have run.
	callValue *uint256.Int
}

// An Option modifies a Configuration.
type Option interface {
	Apply(*Configuration) error
}

// A FuncOption converts a function into an Option by calling itself as
// Apply().
type FuncOption func(*Configuration) error

// Apply returns f(c).
func (f FuncOption) Apply(c *Configuration) error {
	return f(c)
}

// ReadOnly sets the `readOnly` argument to true when calling
// EVMInterpreter.Run(), equivalent to a static call.
func ReadOnly() Option {
	return FuncOption(func(c *Configuration) error {
		c.ReadOnly = true
		return nil
	})
}

// Gas overrides the default gas allowance made available to the call.
func Gas(gas uint64) Option {
	return FuncOption(func(c *Configuration) error {
		c.Gas = gas
		return nil
	})
}

// StateDB sets the state database backing storage opcodes (SLOAD/SSTORE) and
// account state (BALANCE/EXTCODE*). Without this option, programs that touch
// storage or other accounts will fail since Configuration.StateDB defaults to
// nil.
func StateDB(db vm.StateDB) Option {
	return FuncOption(func(c *Configuration) error {
		c.StateDB = db
		return nil
	})
}

// CallValue sets the wei value carried by the call, visible to CALLVALUE.
func CallValue(value *uint256.Int) Option {
	return FuncOption(func(c *Configuration) error {
		c.callValue = new(uint256.Int).Set(value)
		return nil
	})
}

// Origin sets the transaction origin visible to ORIGIN.
func Origin(addr common.Address) Option {
	return FuncOption(func(c *Configuration) error {
		c.TxCtx.Origin = addr
		return nil
	})
}
