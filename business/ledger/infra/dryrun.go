// Package infra contains submitter implementations for the ledger context.
package infra

import (
	"context"
	"crypto/sha256"
	"encoding/json"

	ledgerDomain "github.com/deeparb/deeparb/business/ledger/domain"
	txDomain "github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/logger"
)

// DryRunSubmitter validates and serializes a draft without touching
// the network, deriving a deterministic digest from the serialized
// form. It stands in for the signing submitter during development.
type DryRunSubmitter struct {
	logger logger.LoggerInterface
}

// NewDryRunSubmitter creates a DryRunSubmitter.
func NewDryRunSubmitter(log logger.LoggerInterface) *DryRunSubmitter {
	return &DryRunSubmitter{logger: log}
}

// Submit runs the draft's assembly checks, serializes it, and returns
// a digest of the serialized bytes. Cancellation before broadcast
// aborts cleanly; nothing reaches the ledger so there is no cleanup.
func (s *DryRunSubmitter) Submit(ctx context.Context, draft *txDomain.Draft) (ledgerDomain.Digest, error) {
	if draft == nil {
		return "", apperror.New(apperror.CodeRequiredField,
			apperror.WithContext("nil draft"))
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", apperror.New(apperror.CodeSubmissionFailed,
			apperror.WithContext("submission cancelled before broadcast"),
			apperror.WithCause(err))
	}

	digest := ledgerDomain.DigestFromBytes(sha256.Sum256(payload))
	s.logger.Info(ctx, "dry-run submission",
		"instructions", draft.Len(),
		"bytes", len(payload),
		"digest", digest.String(),
	)
	return digest, nil
}
