package runexec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// defaultGas is made available to a call when no Gas Option is supplied. It
// is large enough that realistic lll programs never run out of gas by
// accident; programs testing gas exhaustion should set it explicitly.
const defaultGas = 30_000_000

// Run executes `compiled` (typically the output of lll.Compile) on a freshly
// instantiated vm.EVMInterpreter and returns the data it returns or reverts
// with.
//
// The default EVM parameters MUST NOT be considered stable: they are
// currently such that code runs as if on the Cancun fork with no backing
// state database.
func Run(compiled, callData []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfiguration(opts...)
	if err != nil {
		return nil, err
	}

	interp := vm.NewEVM(
		cfg.BlockCtx,
		cfg.TxCtx,
		cfg.StateDB,
		cfg.ChainConfig,
		cfg.VMConfig,
	).Interpreter()

	contract := &vm.Contract{
		Code: compiled,
		Gas:  cfg.Gas,
	}
	if cfg.callValue != nil {
		contract.Value = new(uint256.Int).Set(cfg.callValue)
	}

	out, err := interp.Run(contract, callData, cfg.ReadOnly)
	if err != nil {
		return out, fmt.Errorf("%T.Run(bytecode, callData, readOnly=%t): %w", interp, cfg.ReadOnly, err)
	}
	return out, nil
}

// StartDebugging appends a new Debugger to opts, calls Run() in a new
// goroutine, and returns the Debugger along with a function that blocks until
// Run() returns and yields its result. There is no need to separately call
// Debugger.Wait() before using the returned Debugger.
//
// If execution never completes, such that Debugger.Done() never returns true,
// the goroutine is leaked.
func StartDebugging(compiled, callData []byte, opts ...Option) (*Debugger, func() ([]byte, error)) {
	dbg := NewDebugger()
	opts = append(opts, dbg)

	var (
		result []byte
		err    error
	)
	doneRunning := make(chan struct{})
	go func() {
		result, err = Run(compiled, callData, opts...)
		close(doneRunning)
	}()

	dbg.Wait()

	return dbg, func() ([]byte, error) {
		<-doneRunning
		return result, err
	}
}

func newConfiguration(opts ...Option) (*Configuration, error) {
	cfg := &Configuration{
		BlockCtx: vm.BlockContext{
			BlockNumber: big.NewInt(0),
			Random:      &common.Hash{}, // post-merge
		},
		ChainConfig: &params.ChainConfig{
			LondonBlock: big.NewInt(0),
			CancunTime:  new(uint64),
		},
		Gas: defaultGas,
	}
	for _, o := range opts {
		if err := o.Apply(cfg); err != nil {
			return nil, fmt.Errorf("Option[%T].Apply(): %w", o, err)
		}
	}
	return cfg, nil
}
