package domain

import (
	"encoding/json"
	"fmt"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// clockObjectID is the shared clock object every time-sensitive
// instruction references.
const clockObjectID = "0x6"

// Draft is a mutable, ordered list of instructions plus the pool of
// live handles produced by earlier instructions. Assembly is
// single-threaded and synchronous; the finished draft executes
// atomically on the ledger: all instructions succeed or none do.
//
// Handles can only reference instructions already emitted, so an
// instruction can never consume a value produced later. The remaining
// local invariants are enforced here: a move-value handle is spent at
// most once, a handle never crosses drafts, and every flash-loan
// receipt is returned before the draft is considered complete.
type Draft struct {
	registry     *asset.Registry
	instructions []Instruction
	handles      []*Handle
}

// NewDraft creates an empty draft bound to a network registry.
func NewDraft(registry *asset.Registry) *Draft {
	return &Draft{registry: registry}
}

// Registry returns the registry the draft was built against.
func (d *Draft) Registry() *asset.Registry {
	return d.registry
}

// Len returns the number of emitted instructions.
func (d *Draft) Len() int {
	return len(d.instructions)
}

// Instructions returns a copy of the emitted instruction list.
func (d *Draft) Instructions() []Instruction {
	out := make([]Instruction, len(d.instructions))
	copy(out, d.instructions)
	return out
}

// Finish validates the draft and returns the final instruction list.
// A flash-loan receipt that was never returned makes the whole draft
// invalid: the ledger would reject it at execution time, so it is
// caught here at assembly time instead.
func (d *Draft) Finish() ([]Instruction, error) {
	for _, h := range d.handles {
		if h.kind == HandleFlashLoanReceipt && !h.consumed {
			return nil, apperror.New(apperror.CodeDanglingReceipt,
				apperror.WithContext(fmt.Sprintf("flash loan from pool %s (%s side) not returned", h.pool.Key(), h.side)))
		}
	}
	if len(d.instructions) == 0 {
		return nil, apperror.New(apperror.CodeInvalidState, apperror.WithContext("empty draft"))
	}
	return d.Instructions(), nil
}

// MarshalJSON serializes the draft for the signing collaborator.
func (d *Draft) MarshalJSON() ([]byte, error) {
	instructions, err := d.Finish()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Network      asset.Network `json:"network"`
		Instructions []Instruction `json:"instructions"`
	}{
		Network:      d.registry.Network(),
		Instructions: instructions,
	})
}

// emit appends a venue contract call and returns its index.
func (d *Draft) emit(module, function string, typeArgs []string, args ...Arg) int {
	target := fmt.Sprintf("%s::%s::%s", d.registry.PackageID(), module, function)
	return d.emitTarget(target, typeArgs, args...)
}

// emitTarget appends an instruction with an explicit target.
func (d *Draft) emitTarget(target string, typeArgs []string, args ...Arg) int {
	idx := len(d.instructions)
	d.instructions = append(d.instructions, Instruction{
		Index:    idx,
		Target:   target,
		TypeArgs: typeArgs,
		Args:     args,
	})
	return idx
}

// produce registers a new handle for output position out of
// instruction idx.
func (d *Draft) produce(kind HandleKind, idx, out int) *Handle {
	h := &Handle{draft: d, kind: kind, producedBy: idx, output: out}
	d.handles = append(d.handles, h)
	return h
}

// consume spends a move-value handle and returns its argument form.
func (d *Draft) consume(h *Handle, want HandleKind) (Arg, error) {
	if err := d.spendable(h, want); err != nil {
		return Arg{}, err
	}
	if h.singleUse() {
		h.consumed = true
	}
	return h.arg(), nil
}

// spendable verifies a handle could be consumed without spending it.
// Builders run it over every input before emitting anything, so a
// rejected call leaves the draft untouched.
func (d *Draft) spendable(h *Handle, want HandleKind) error {
	if err := d.check(h, want); err != nil {
		return err
	}
	if h.consumed {
		return apperror.New(apperror.CodeOutOfOrderHandle,
			apperror.WithContext(fmt.Sprintf("%s handle from instruction %d consumed twice", h.kind, h.producedBy)))
	}
	return nil
}

// borrow references a reusable handle without spending it.
func (d *Draft) borrow(h *Handle, want HandleKind) (Arg, error) {
	if err := d.check(h, want); err != nil {
		return Arg{}, err
	}
	if h.consumed {
		return Arg{}, apperror.New(apperror.CodeOutOfOrderHandle,
			apperror.WithContext(fmt.Sprintf("%s handle from instruction %d referenced after being spent", h.kind, h.producedBy)))
	}
	return h.arg(), nil
}

func (d *Draft) check(h *Handle, want HandleKind) error {
	if h == nil {
		return apperror.New(apperror.CodeRequiredField, apperror.WithContext("nil handle"))
	}
	if h.draft != d {
		return apperror.New(apperror.CodeForeignHandle,
			apperror.WithContext(fmt.Sprintf("%s handle belongs to another draft", h.kind)))
	}
	if h.kind != want {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("expected %s handle, got %s", want, h.kind)))
	}
	return nil
}

// poolTypeArgs returns the [base, quote] type arguments for a pool.
func poolTypeArgs(p *asset.Pool) []string {
	return []string{p.Base().TypeID(), p.Quote().TypeID()}
}
