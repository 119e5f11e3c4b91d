package runexec

import (
	"context"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/solidifylabs/lllc/internal/sync"
)

// NewDebugger constructs a new Debugger, to be passed as an Option to Run()
// or, more usefully, to StartDebugging().
//
// Execution SHOULD be advanced until Debugger.Done() returns true, otherwise
// resources will be leaked; best practice is to defer a call to
// FastForward().
func NewDebugger() *Debugger {
	step := make(chan step)
	fastForward := make(chan fastForward)
	stepped := make(chan stepped)
	done := make(chan done)

	// The outer and inner values have complementary send/receive directions
	// for each channel, giving a compile-time guarantee that only the
	// intended side can send or close.
	return &Debugger{
		step:        step,
		fastForward: fastForward,
		stepped:     stepped,
		done:        done,
		d: &debugger{
			step:        step,
			fastForward: fastForward,
			stepped:     stepped,
			done:        done,
		},
	}
}

// Distinct unit types avoid accidentally mixing up otherwise-identical
// channels of struct{}.
type (
	step        struct{}
	fastForward struct{}
	stepped     struct{}
	done        struct{}
)

// A Debugger is an Option that intercepts opcode execution of the program
// being run, allowing for single-step inspection of the stack, memory, and
// program counter.
//
// Currently only a single call frame is supported (i.e. no *CALL opcodes).
type Debugger struct {
	d *debugger

	step        chan<- step
	fastForward chan<- fastForward
	stepped     <-chan stepped
	done        <-chan done
}

// Apply installs the Debugger as the Configuration's vm.EVMLogger, causing
// every opcode to be intercepted.
func (d *Debugger) Apply(c *Configuration) error {
	c.VMConfig.Tracer = d.d
	return nil
}

// Wait blocks until execution has started and the first opcode is blocked
// awaiting a Step(), without advancing it. State() is not populated by
// Wait(); it is first filled in by Step().
func (d *Debugger) Wait() {
	// sync.Toggle.Wait() requires a context but the wait here is guaranteed
	// to be of negligible duration, so there's no value in asking callers to
	// provide one. The only possible error is sync.ErrToggleClosed, which is
	// the happy path once execution has finished.
	_ = d.d.blockingEVM.Wait(context.Background())
}

func (d *Debugger) close(closeFastForward bool) {
	close(d.step)
	if closeFastForward {
		close(d.fastForward)
	}
	d.d.blockingEVM.Close()
}

// Step advances execution by one opcode. It MUST NOT be called concurrently
// with any other Debugger method, nor after Done() returns true. The first
// opcode only executes upon the first call to Step(); State() then describes
// the opcode that Step() just released.
func (d *Debugger) Step() {
	d.step <- step{}
	<-d.stepped

	select {
	case <-d.done:
		d.close(true)
	default:
		d.Wait()
	}
}

// FastForward executes all remaining opcodes, equivalent to calling Step() in
// a loop until Done() returns true. Unlike Step(), calling FastForward() once
// Done() already returns true is a no-op, making it safe to defer.
func (d *Debugger) FastForward() {
	select {
	case <-d.d.fastForward:
		return
	default:
	}

	close(d.fastForward)
	for {
		select {
		case <-d.stepped:
		case <-d.done:
			d.close(false)
			return
		}
	}
}

// Done reports whether execution has ended, by fault, revert or normal
// completion.
func (d *Debugger) Done() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// State returns the last-captured state, refreshed on each call to Step(). It
// is only valid after the first Step(). Pointers within it are owned by the
// interpreter that produced them and remain live only as long as execution
// continues.
func (d *Debugger) State() *CapturedState {
	return &d.d.last
}

// CapturedState carries the values exposed to a vm.EVMLogger at each
// intercepted opcode.
type CapturedState struct {
	PC, GasLeft, GasCost uint64
	Op                   vm.OpCode
	ScopeContext         *vm.ScopeContext
	ReturnData           []byte
	Err                  error
}

// debugger implements vm.EVMLogger, injected into a Configuration by its
// parent Debugger.
type debugger struct {
	vm.EVMLogger

	step        <-chan step
	fastForward <-chan fastForward
	stepped     chan<- stepped
	// blockingEVM is toggled on whenever CaptureState/CaptureFault is
	// blocking the interpreter awaiting a Step(), so Debugger.Wait() can
	// synchronise with it.
	blockingEVM sync.Toggle
	done        chan<- done

	last CapturedState
}

// CaptureState is only ever called by a direct vm.EVMInterpreter.Run(); CALL*
// opcodes would additionally invoke CaptureEnter/CaptureExit, which this
// debugger does not yet support.
func (d *debugger) CaptureState(pc uint64, op vm.OpCode, gasLeft, gasCost uint64, scope *vm.ScopeContext, retData []byte, depth int, err error) {
	d.blockingEVM.Set(true)

	select {
	case <-d.step:
	case <-d.fastForward:
	}

	d.last.PC = pc
	d.last.Op = op
	d.last.GasLeft = gasLeft
	d.last.GasCost = gasCost
	d.last.ScopeContext = scope
	d.last.ReturnData = retData
	d.last.Err = err

	// Closing/sending on d.stepped MUST be the last action in each branch:
	// Debugger.Step() only checks d.done once its receive from d.stepped
	// unblocks.
	switch op {
	case vm.STOP, vm.RETURN: // REVERT surfaces via CaptureFault instead.
		close(d.done)
		close(d.stepped)
	default:
		d.blockingEVM.Set(false)
		d.stepped <- stepped{}
	}
}

func (d *debugger) CaptureFault(pc uint64, op vm.OpCode, gasLeft, gasCost uint64, scope *vm.ScopeContext, depth int, err error) {
	d.blockingEVM.Set(true)
	defer d.blockingEVM.Set(false)

	select {
	case <-d.step:
	case <-d.fastForward:
	}

	d.last.PC = pc
	d.last.Op = op
	d.last.GasLeft = gasLeft
	d.last.GasCost = gasCost
	d.last.ScopeContext = scope
	d.last.ReturnData = nil
	d.last.Err = err

	close(d.done)
	close(d.stepped)
}
