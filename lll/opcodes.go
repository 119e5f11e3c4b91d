package lll

//
// Component A (spec.md §4.A): a frozen mapping from uppercase mnemonic to
// (byte, arity, valency, base gas). Real EVM opcodes are sourced from
// go-ethereum's own opcode identifiers rather than hand-transcribed bytes;
// base gas draws on go-ethereum's named gas-step constants, which is the
// closest the core gets to go-ethereum's gas schedule without reimplementing
// dynamic (memory-expansion, cold/warm access) costs, explicitly out of
// scope for a *static upper bound* estimator (spec.md §4.C).
//
// Only opcodes usable as LLL expression nodes are listed: those whose net
// stack effect (valency, i.e. push count) is 0 or 1, per spec.md §3's
// invariant that "No construct produces >1". PUSH*/DUP*/SWAP*/JUMPDEST are
// deliberately excluded — they're either synthesised by the assembler
// (PUSHk for literals, DUPk for variable references) or represented by
// dedicated Node forms (JUMPDEST has no Node equivalent; it only appears in
// lowered assembly, minted by `if`/`repeat`/`lll`).

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// An opRecord is one row of the opcode table: the concrete byte a mnemonic
// assembles to, how many LLL-node arguments it requires, the net stack
// effect of the whole node (0 or 1), and an approximate static gas cost.
type opRecord struct {
	byte    byte
	arity   int
	valency int
	gas     uint64
}

// pseudoOpcode names: treated as opcodes for arity/valency checking (spec.md
// §4.A) but expanded into several real opcodes by lowering (spec.md
// §4.D items 12-14), not assigned a concrete byte.
const (
	pseudoClamp        = "CLAMP"
	pseudoClampLT       = "CLAMPLT"
	pseudoClampNonZero = "CLAMP_NONZERO"
)

// opcodeTable is keyed by uppercase mnemonic. It is never mutated after
// package initialisation.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() map[string]opRecord {
	t := map[string]opRecord{
		// Arithmetic & comparison (valency 1: args in, one result out).
		"ADD":        {byte(vm.ADD), 2, 1, params.GasFastestStep},
		"MUL":        {byte(vm.MUL), 2, 1, params.GasFastStep},
		"SUB":        {byte(vm.SUB), 2, 1, params.GasFastestStep},
		"DIV":        {byte(vm.DIV), 2, 1, params.GasFastStep},
		"SDIV":       {byte(vm.SDIV), 2, 1, params.GasFastStep},
		"MOD":        {byte(vm.MOD), 2, 1, params.GasFastStep},
		"SMOD":       {byte(vm.SMOD), 2, 1, params.GasFastStep},
		"ADDMOD":     {byte(vm.ADDMOD), 3, 1, params.GasMidStep},
		"MULMOD":     {byte(vm.MULMOD), 3, 1, params.GasMidStep},
		"EXP":        {byte(vm.EXP), 2, 1, params.GasSlowStep},
		"SIGNEXTEND": {byte(vm.SIGNEXTEND), 2, 1, params.GasFastStep},
		"LT":         {byte(vm.LT), 2, 1, params.GasFastestStep},
		"GT":         {byte(vm.GT), 2, 1, params.GasFastestStep},
		"SLT":        {byte(vm.SLT), 2, 1, params.GasFastestStep},
		"SGT":        {byte(vm.SGT), 2, 1, params.GasFastestStep},
		"EQ":         {byte(vm.EQ), 2, 1, params.GasFastestStep},
		"ISZERO":     {byte(vm.ISZERO), 1, 1, params.GasFastestStep},
		"AND":        {byte(vm.AND), 2, 1, params.GasFastestStep},
		"OR":         {byte(vm.OR), 2, 1, params.GasFastestStep},
		"XOR":        {byte(vm.XOR), 2, 1, params.GasFastestStep},
		"NOT":        {byte(vm.NOT), 1, 1, params.GasFastestStep},
		"BYTE":       {byte(vm.BYTE), 2, 1, params.GasFastestStep},
		"SHL":        {byte(vm.SHL), 2, 1, params.GasFastestStep},
		"SHR":        {byte(vm.SHR), 2, 1, params.GasFastestStep},
		"SAR":        {byte(vm.SAR), 2, 1, params.GasFastestStep},
		"KECCAK256":  {byte(vm.KECCAK256), 2, 1, params.Sha3Gas},

		// Environment (valency 1, arity 0 unless noted).
		"ADDRESS":        {byte(vm.ADDRESS), 0, 1, params.GasQuickStep},
		"BALANCE":        {byte(vm.BALANCE), 1, 1, params.WarmStorageReadCostEIP2929},
		"ORIGIN":         {byte(vm.ORIGIN), 0, 1, params.GasQuickStep},
		"CALLER":         {byte(vm.CALLER), 0, 1, params.GasQuickStep},
		"CALLVALUE":      {byte(vm.CALLVALUE), 0, 1, params.GasQuickStep},
		"CALLDATALOAD":   {byte(vm.CALLDATALOAD), 1, 1, params.GasFastestStep},
		"CALLDATASIZE":   {byte(vm.CALLDATASIZE), 0, 1, params.GasQuickStep},
		"CODESIZE":       {byte(vm.CODESIZE), 0, 1, params.GasQuickStep},
		"GASPRICE":       {byte(vm.GASPRICE), 0, 1, params.GasQuickStep},
		"EXTCODESIZE":    {byte(vm.EXTCODESIZE), 1, 1, params.WarmStorageReadCostEIP2929},
		"EXTCODEHASH":    {byte(vm.EXTCODEHASH), 1, 1, params.WarmStorageReadCostEIP2929},
		"RETURNDATASIZE": {byte(vm.RETURNDATASIZE), 0, 1, params.GasQuickStep},
		"BLOCKHASH":      {byte(vm.BLOCKHASH), 1, 1, params.GasExtStep},
		"COINBASE":       {byte(vm.COINBASE), 0, 1, params.GasQuickStep},
		"TIMESTAMP":      {byte(vm.TIMESTAMP), 0, 1, params.GasQuickStep},
		"NUMBER":         {byte(vm.NUMBER), 0, 1, params.GasQuickStep},
		"DIFFICULTY":     {byte(vm.DIFFICULTY), 0, 1, params.GasQuickStep},
		"GASLIMIT":       {byte(vm.GASLIMIT), 0, 1, params.GasQuickStep},
		"CHAINID":        {byte(vm.CHAINID), 0, 1, params.GasQuickStep},
		"SELFBALANCE":    {byte(vm.SELFBALANCE), 0, 1, params.GasFastStep},
		"BASEFEE":        {byte(vm.BASEFEE), 0, 1, params.GasQuickStep},
		"BLOBHASH":       {byte(vm.BLOBHASH), 1, 1, params.GasFastestStep},
		"BLOBBASEFEE":    {byte(vm.BLOBBASEFEE), 0, 1, params.GasQuickStep},

		// Memory/storage/misc (valency 1).
		"MLOAD":  {byte(vm.MLOAD), 1, 1, params.GasFastestStep},
		"SLOAD":  {byte(vm.SLOAD), 1, 1, params.WarmStorageReadCostEIP2929},
		"TLOAD":  {byte(vm.TLOAD), 1, 1, params.WarmStorageReadCostEIP2929},
		"PC":     {byte(vm.PC), 0, 1, params.GasQuickStep},
		"MSIZE":  {byte(vm.MSIZE), 0, 1, params.GasQuickStep},
		"GAS":    {byte(vm.GAS), 0, 1, params.GasQuickStep},

		// Memory/storage/misc (valency 0).
		"MSTORE":         {byte(vm.MSTORE), 2, 0, params.GasFastestStep},
		"MSTORE8":        {byte(vm.MSTORE8), 2, 0, params.GasFastestStep},
		"SSTORE":         {byte(vm.SSTORE), 2, 0, params.SstoreResetGasEIP2200},
		"TSTORE":         {byte(vm.TSTORE), 2, 0, params.WarmStorageReadCostEIP2929},
		"MCOPY":          {byte(vm.MCOPY), 3, 0, params.GasFastestStep},
		"POP":            {byte(vm.POP), 1, 0, params.GasQuickStep},
		"CALLDATACOPY":   {byte(vm.CALLDATACOPY), 3, 0, params.GasFastestStep},
		"CODECOPY":       {byte(vm.CODECOPY), 3, 0, params.GasFastestStep},
		"EXTCODECOPY":    {byte(vm.EXTCODECOPY), 4, 0, params.WarmStorageReadCostEIP2929},
		"RETURNDATACOPY": {byte(vm.RETURNDATACOPY), 3, 0, params.GasFastestStep},
		"LOG0":           {byte(vm.LOG0), 2, 0, params.LogGas},
		"LOG1":           {byte(vm.LOG1), 3, 0, params.LogGas + params.LogTopicGas},
		"LOG2":           {byte(vm.LOG2), 4, 0, params.LogGas + 2*params.LogTopicGas},
		"LOG3":           {byte(vm.LOG3), 5, 0, params.LogGas + 3*params.LogTopicGas},
		"LOG4":           {byte(vm.LOG4), 6, 0, params.LogGas + 4*params.LogTopicGas},
		"JUMP":           {byte(vm.JUMP), 1, 0, params.GasMidStep},
		"JUMPI":          {byte(vm.JUMPI), 2, 0, params.GasSlowStep},
		"STOP":           {byte(vm.STOP), 0, 0, 0},
		"RETURN":         {byte(vm.RETURN), 2, 0, 0},
		"REVERT":         {byte(vm.REVERT), 2, 0, 0},
		"INVALID":        {byte(vm.INVALID), 0, 0, 0},
		"SELFDESTRUCT":   {byte(vm.SELFDESTRUCT), 1, 0, params.SelfdestructGasEIP150},

		// Calls & contract creation (valency 1).
		"CREATE":       {byte(vm.CREATE), 3, 1, params.CreateGas},
		"CREATE2":      {byte(vm.CREATE2), 4, 1, params.Create2Gas},
		"CALL":         {byte(vm.CALL), 7, 1, params.WarmStorageReadCostEIP2929},
		"CALLCODE":     {byte(vm.CALLCODE), 7, 1, params.WarmStorageReadCostEIP2929},
		"DELEGATECALL": {byte(vm.DELEGATECALL), 6, 1, params.WarmStorageReadCostEIP2929},
		"STATICCALL":   {byte(vm.STATICCALL), 6, 1, params.WarmStorageReadCostEIP2929},
	}

	// Pseudo-opcodes (spec.md §4.A): checked like opcodes for arity/valency,
	// but have no concrete byte — lowering (§4.D items 12-14) expands them.
	t[pseudoClamp] = opRecord{arity: 3, valency: 1}
	t[pseudoClampLT] = opRecord{arity: 2, valency: 1}
	t[pseudoClampNonZero] = opRecord{arity: 1, valency: 1}

	return t
}

// CALL's value-argument index (0-based, counting from the first argument)
// used by the gas estimator's dynamic adjustment (spec.md §4.C).
const callValueArgIndex = 2

// SSTORE's value-argument index used by the same.
const sstoreValueArgIndex = 1

// dynamicCallGas is added to CALL's estimate when its value argument is a
// non-zero literal (spec.md §4.C): the sum of go-ethereum's
// CallValueTransferGas and CallNewAccountGas, i.e. the cost of a
// value-bearing call to a possibly-new account.
const dynamicCallGas = params.CallValueTransferGas + params.CallNewAccountGas

// dynamicSstoreGas is added to SSTORE's estimate when its value argument is
// a non-zero literal (spec.md §4.C): the delta between writing a fresh
// non-zero slot (SstoreSetGasEIP2200) and the table's resting SSTORE cost
// (SstoreResetGasEIP2200), so the two sum to SstoreSetGasEIP2200 overall.
const dynamicSstoreGas = params.SstoreSetGasEIP2200 - params.SstoreResetGasEIP2200
