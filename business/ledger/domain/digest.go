// Package domain contains the core domain types for the ledger context.
package domain

import (
	"strings"

	"github.com/mr-tron/base58"

	"github.com/deeparb/deeparb/internal/apperror"
)

// digestBytes is the length of a transaction digest on the ledger.
const digestBytes = 32

// Digest is a base58-encoded 32-byte transaction digest.
type Digest string

// String returns the digest as a string.
func (d Digest) String() string {
	return string(d)
}

// IsValid reports whether the digest decodes to exactly 32 bytes.
func (d Digest) IsValid() bool {
	raw, err := base58.Decode(string(d))
	return err == nil && len(raw) == digestBytes
}

// DigestFromBytes encodes a 32-byte hash as a Digest.
func DigestFromBytes(b [digestBytes]byte) Digest {
	return Digest(base58.Encode(b[:]))
}

// ParseDigest validates a digest string from an external source.
func ParseDigest(s string) (Digest, error) {
	d := Digest(s)
	if !d.IsValid() {
		return "", apperror.New(apperror.CodeInvalidFormat,
			apperror.WithContext("transaction digest must be base58 of 32 bytes, got "+s))
	}
	return d, nil
}

// Known execution failure markers in ledger error strings.
const (
	abortRiskRatio = "risk_ratio_exceeded"
	abortFlashLoan = "flash_loan_not_repaid"
	abortAtomic    = "transaction_effects_reverted"
)

// MapExecutionError translates a raw ledger execution error into a
// coded error. Execution failures are fatal for the draft that caused
// them and are never retried.
func MapExecutionError(raw string) error {
	lowered := strings.ToLower(raw)
	switch {
	case strings.Contains(lowered, abortRiskRatio):
		return apperror.New(apperror.CodeRiskRatioExceeded,
			apperror.WithContext("ledger error: "+raw),
			apperror.WithHint("deposit additional collateral or repay debt before resubmitting"))
	case strings.Contains(lowered, abortFlashLoan), strings.Contains(lowered, abortAtomic):
		return apperror.New(apperror.CodeAtomicityViolation,
			apperror.WithContext("ledger error: "+raw),
			apperror.WithHint("transaction reverted, no effects were committed"))
	default:
		return apperror.New(apperror.CodeSubmissionFailed,
			apperror.WithContext("ledger error: "+raw))
	}
}
