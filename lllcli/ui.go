package lllcli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/solidifylabs/lllc/runexec"
)

// runTerminalUI starts a UI that drives dbg and displays the program counter,
// stack and memory as execution is stepped through. `results` MUST return the
// call's return data (or error) once dbg.Done() returns true.
func runTerminalUI(dbg *runexec.Debugger, callData, compiled []byte, results func() ([]byte, error)) error {
	t := &termUI{
		dbg:     dbg,
		results: results,
	}
	t.initComponents()
	t.initApp()
	t.populateCallData(callData)
	t.populateCode(compiled)
	return t.app.Run()
}

type termUI struct {
	dbg *runexec.Debugger
	app *tview.Application

	stack, memory    *tview.List
	callData, result *tview.TextView

	code         *tview.List
	pcToCodeItem map[uint64]int

	results func() ([]byte, error)
}

func (*termUI) styleBox(b *tview.Box, title string) *tview.Box {
	return b.SetBorder(true).
		SetTitle(title).
		SetTitleAlign(tview.AlignLeft)
}

func (t *termUI) initComponents() {
	const codeTitle = "Code"
	for title, l := range map[string]**tview.List{
		"Stack":   &t.stack,
		"Memory":  &t.memory,
		codeTitle: &t.code,
	} {
		*l = tview.NewList()
		(*l).ShowSecondaryText(false).
			SetSelectedFocusOnly(title != codeTitle)
		t.styleBox((*l).Box, title)
	}

	t.code.SetChangedFunc(func(int, string, string, rune) {
		t.onStep()
	})

	for title, v := range map[string]**tview.TextView{
		"Calldata": &t.callData,
		"Result":   &t.result,
	} {
		*v = tview.NewTextView()
		t.styleBox((*v).Box, title)
	}
}

func (t *termUI) initApp() {
	t.app = tview.NewApplication().SetRoot(t.createLayout(), true)
	t.app.SetInputCapture(t.inputCapture)
}

func (t *termUI) createLayout() tview.Primitive {
	// Components have borders of 2, which need to be accounted for in
	// absolute dimensions.
	const (
		hStack = 2 + 16
		wStack = 2 + 5 + 64 // w/ 4-digit decimal label & space
		wMem   = 2 + 3 + 64 // w/ 2-digit hex offset & space
	)
	middle := tview.NewFlex().
		AddItem(t.code, 0, 1, false).
		AddItem(t.stack, wStack, 0, false).
		AddItem(t.memory, wMem, 0, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.callData, 0, 1, false).
		AddItem(middle, hStack, 0, false).
		AddItem(t.result, 0, 1, false)

	t.styleBox(root.Box, "lllc").SetTitleAlign(tview.AlignCenter)

	return root
}

func (t *termUI) populateCallData(cd []byte) {
	t.callData.SetText(fmt.Sprintf("%x", cd))
}

func (t *termUI) populateCode(code []byte) {
	t.pcToCodeItem = make(map[uint64]int)

	var skip int
	for i, o := range code {
		if skip > 0 {
			skip--
			continue
		}

		var text string
		switch op := vm.OpCode(o); {
		case op == vm.PUSH0:
			text = op.String()

		case op.IsPush():
			skip += int(op - vm.PUSH0)
			text = fmt.Sprintf("%s %#x", op.String(), code[i+1:i+1+skip])

		default:
			text = op.String()
		}

		t.pcToCodeItem[uint64(i)] = t.code.GetItemCount()
		t.code.AddItem(text, "", 0, nil)
	}

	t.code.AddItem("--- END ---", "", 0, nil)
}

func (t *termUI) highlightPC() {
	t.code.SetCurrentItem(t.pcToCodeItem[t.dbg.State().PC] + 1)
}

// onStep is triggered by t.code's ChangedFunc.
func (t *termUI) onStep() {
	if !t.dbg.Done() {
		return
	}
	t.result.SetText(t.resultToDisplay())
}

func (t *termUI) resultToDisplay() string {
	out, err := t.results()
	if err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	return fmt.Sprintf("%x", out)
}

func (t *termUI) inputCapture(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.app.Stop()
		return ev

	case tcell.KeyEnd:
		t.dbg.FastForward()
		t.highlightPC()

	case tcell.KeyEscape:
		if t.dbg.Done() {
			t.app.Stop()
		}
	}

	switch ev.Rune() {
	case ' ':
		if !t.dbg.Done() {
			t.dbg.Step()
			t.highlightPC()
		}

	case 'q':
		if t.dbg.Done() {
			t.app.Stop()
		}
	}

	if ctx := t.dbg.State().ScopeContext; ctx != nil {
		t.populateStack(ctx)
		t.populateMemory(ctx)
	}

	return nil
}

func (t *termUI) populateStack(ctx *vm.ScopeContext) {
	stack := ctx.StackData()

	t.stack.Clear()
	for i, n := 0, len(stack); i < n; i++ {
		item := stack[n-1-i]
		buf := item.Bytes()
		if item.IsZero() {
			buf = []byte{0}
		}
		t.stack.AddItem(fmt.Sprintf("%4d %64x", n-i, buf), "", 0, nil)
	}

	// Empty lines so real values are at the bottom.
	for t.stack.GetItemCount() < 16 {
		t.stack.InsertItem(0, "", "", 0, nil)
	}
}

func (t *termUI) populateMemory(ctx *vm.ScopeContext) {
	mem := ctx.MemoryData()

	t.memory.Clear()
	for i := 0; i < len(mem); i += 32 {
		end := i + 32
		if end > len(mem) {
			end = len(mem)
		}
		t.memory.AddItem(fmt.Sprintf("%02x %x", i, mem[i:end]), "", 0, nil)
	}
}
