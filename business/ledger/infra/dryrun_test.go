package infra

import (
	"context"
	"io"
	"testing"

	txDomain "github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func roundTripDraft(t *testing.T) *txDomain.Draft {
	t.Helper()
	registry := asset.MainnetRegistry()
	pool, err := registry.Pool("SUI_USDC")
	if err != nil {
		t.Fatalf("pool lookup: %v", err)
	}

	draft := txDomain.NewDraft(registry)
	coin, receipt, err := draft.BorrowFlashLoan(pool, asset.SideBase, 1_000_000_000)
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if err := draft.ReturnFlashLoan(pool, coin, receipt); err != nil {
		t.Fatalf("return: %v", err)
	}
	return draft
}

func TestDryRunSubmitProducesValidDigest(t *testing.T) {
	submitter := NewDryRunSubmitter(testLogger())

	digest, err := submitter.Submit(context.Background(), roundTripDraft(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !digest.IsValid() {
		t.Fatalf("digest %q is not base58 of 32 bytes", digest)
	}
}

func TestDryRunSubmitIsDeterministic(t *testing.T) {
	submitter := NewDryRunSubmitter(testLogger())

	first, err := submitter.Submit(context.Background(), roundTripDraft(t))
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := submitter.Submit(context.Background(), roundTripDraft(t))
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first != second {
		t.Fatalf("identical drafts produced digests %q and %q", first, second)
	}
}

func TestDryRunSubmitRejectsDanglingReceipt(t *testing.T) {
	registry := asset.MainnetRegistry()
	pool, err := registry.Pool("SUI_USDC")
	if err != nil {
		t.Fatalf("pool lookup: %v", err)
	}

	draft := txDomain.NewDraft(registry)
	if _, _, err := draft.BorrowFlashLoan(pool, asset.SideBase, 1_000_000_000); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	submitter := NewDryRunSubmitter(testLogger())
	if _, err := submitter.Submit(context.Background(), draft); !apperror.HasCode(err, apperror.CodeDanglingReceipt) {
		t.Fatalf("Submit = %v, want DANGLING_RECEIPT", err)
	}
}

func TestDryRunSubmitHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	submitter := NewDryRunSubmitter(testLogger())
	if _, err := submitter.Submit(ctx, roundTripDraft(t)); !apperror.HasCode(err, apperror.CodeSubmissionFailed) {
		t.Fatalf("Submit on cancelled context = %v, want SUBMISSION_FAILED", err)
	}
}

func TestDryRunSubmitNilDraft(t *testing.T) {
	submitter := NewDryRunSubmitter(testLogger())
	if _, err := submitter.Submit(context.Background(), nil); !apperror.HasCode(err, apperror.CodeRequiredField) {
		t.Fatalf("Submit(nil) = %v, want REQUIRED_FIELD", err)
	}
}
