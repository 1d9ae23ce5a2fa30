package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ledgerDomain "github.com/deeparb/deeparb/business/ledger/domain"
	txDomain "github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/explorer"
	"github.com/deeparb/deeparb/internal/logger"
)

const tracerName = "github.com/deeparb/deeparb/business/ledger/app"

// SubmitService submits drafts through the configured Submitter and
// logs the resulting digest with an explorer link.
type SubmitService struct {
	submitter Submitter
	network   asset.Network
	logger    logger.LoggerInterface
	tracer    trace.Tracer
}

// NewSubmitService creates a SubmitService.
func NewSubmitService(submitter Submitter, network asset.Network, log logger.LoggerInterface) *SubmitService {
	return &SubmitService{
		submitter: submitter,
		network:   network,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Submit broadcasts a draft. Execution failures come back as coded
// errors from the submitter and are never retried here: the draft
// either committed in full or left no effects.
func (s *SubmitService) Submit(ctx context.Context, draft *txDomain.Draft) (ledgerDomain.Digest, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.submit",
		trace.WithAttributes(attribute.Int("instructions", draft.Len())),
	)
	defer span.End()

	digest, err := s.submitter.Submit(ctx, draft)
	if err != nil {
		span.RecordError(err)
		s.logger.Error(ctx, "submission failed", "error", err)
		return "", err
	}

	span.SetAttributes(attribute.String("digest", digest.String()))
	s.logger.Info(ctx, "transaction submitted",
		"digest", digest.String(),
		"explorer", explorer.URL(s.network, digest.String()),
	)
	return digest, nil
}
