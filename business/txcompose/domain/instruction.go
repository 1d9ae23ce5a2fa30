// Package domain contains the transaction draft and instruction builder
// for the trading venue's atomic programmable transactions.
package domain

import "strconv"

// ArgKind discriminates instruction argument encodings.
type ArgKind string

// Argument kinds.
const (
	ArgPure   ArgKind = "pure"   // scalar encoded as string
	ArgObject ArgKind = "object" // ledger object address
	ArgResult ArgKind = "result" // output of an earlier instruction
)

// ResultRef points at one output of an earlier instruction in the
// same draft.
type ResultRef struct {
	Instruction int `json:"instruction"`
	Output      int `json:"output"`
}

// Arg is a typed instruction argument.
type Arg struct {
	Kind   ArgKind    `json:"kind"`
	Value  string     `json:"value,omitempty"`
	Object string     `json:"object,omitempty"`
	Ref    *ResultRef `json:"ref,omitempty"`
}

// Instruction is one contract call in a draft. Instructions execute in
// emission order; the whole list executes atomically on the ledger.
type Instruction struct {
	Index    int      `json:"index"`
	Target   string   `json:"target"` // package::module::function, or a ledger builtin
	TypeArgs []string `json:"typeArgs,omitempty"`
	Args     []Arg    `json:"args"`
}

func pureU64(v uint64) Arg {
	return Arg{Kind: ArgPure, Value: strconv.FormatUint(v, 10)}
}

func pureBool(v bool) Arg {
	return Arg{Kind: ArgPure, Value: strconv.FormatBool(v)}
}

func pureU8(v uint8) Arg {
	return Arg{Kind: ArgPure, Value: strconv.FormatUint(uint64(v), 10)}
}

func objectArg(address string) Arg {
	return Arg{Kind: ArgObject, Object: address}
}

func resultArg(instruction, output int) Arg {
	return Arg{Kind: ArgResult, Ref: &ResultRef{Instruction: instruction, Output: output}}
}
