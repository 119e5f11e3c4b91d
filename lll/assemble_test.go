package lll

import (
	"testing"
)

func TestAssembleSimpleOpcodeSequence(t *testing.T) {
	asm := Assembly{PushK(1), Imm(1), PushK(1), Imm(2), Op("ADD")}
	got, err := Assemble(asm)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0x01, 0x60, 0x02, byte(opcodeTable["ADD"].byte)}
	if string(got) != string(want) {
		t.Errorf("got %x; want %x", got, want)
	}
}

func TestAssembleSymbolRoundTrip(t *testing.T) {
	// PUSH over a forward jump to a JUMPDEST: the resolved operand must
	// equal the JUMPDEST's own byte offset.
	asm := Assembly{
		SymbolUse("end"), Op("JUMP"),
		Op("POP"), // never reached; padding so the offset isn't trivially 0
		SymbolDef("end"), JumpDest{},
	}
	got, err := Assemble(asm)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// PUSH2 + 2 operand bytes + JUMP + POP + JUMPDEST = 6 bytes; JUMPDEST
	// sits at offset 5.
	wantOffset := uint16(5)
	gotOffset := uint16(got[1])<<8 | uint16(got[2])
	if gotOffset != wantOffset {
		t.Errorf("resolved offset = %d; want %d", gotOffset, wantOffset)
	}
	if got[len(got)-1] != jumpDestByte {
		t.Errorf("last byte = %#x; want JUMPDEST (%#x)", got[len(got)-1], jumpDestByte)
	}
}

func TestAssembleNestedSub(t *testing.T) {
	inner := Assembly{Op("STOP")}
	asm := Assembly{PushK(1), Imm(0), Sub(inner), Op("POP")}
	got, err := Assemble(asm)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0x00, byte(opcodeTable["STOP"].byte), byte(opcodeTable["POP"].byte)}
	if string(got) != string(want) {
		t.Errorf("got %x; want %x", got, want)
	}
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	if _, err := Assemble(Assembly{Op("NOTANOPCODE")}); err == nil {
		t.Fatal("Assemble with unknown opcode mnemonic: want error, got nil")
	}
}

func TestAssembleRejectsOutOfRangePushK(t *testing.T) {
	if _, err := Assemble(Assembly{PushK(33)}); err == nil {
		t.Fatal("Assemble with PushK(33): want error, got nil")
	}
	if _, err := Assemble(Assembly{DupK(17)}); err == nil {
		t.Fatal("Assemble with DupK(17): want error, got nil")
	}
}

func TestAssembleBlankContributesNoBytes(t *testing.T) {
	asm := Assembly{SymbolDef("x"), Blank{}, SymbolUse("x")}
	got, err := Assemble(asm)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{pushBase + 2, 0x00, 0x00} // PUSH2 0x0000: symbol resolves to offset 0
	if string(got) != string(want) {
		t.Errorf("got %x; want %x", got, want)
	}
}
