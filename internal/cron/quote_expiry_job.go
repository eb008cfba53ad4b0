package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
)

const quoteExpiryBatchSize = 100

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type expiryEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// QuoteExpiryJob notifies customers whose approved quotes ran past their
// validity window. The quote status itself never changes; expiry is a fact
// derived from valid_until, not a new state.
type QuoteExpiryJob struct {
	repo   quotes.Repository
	tx     txRunner
	outbox expiryEmitter
	logg   *logger.Logger
	now    func() time.Time
}

// NewQuoteExpiryJob builds the expiry sweep job.
func NewQuoteExpiryJob(repo quotes.Repository, tx txRunner, emitter expiryEmitter, logg *logger.Logger) (*QuoteExpiryJob, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &QuoteExpiryJob{repo: repo, tx: tx, outbox: emitter, logg: logg, now: time.Now}, nil
}

func (j *QuoteExpiryJob) Name() string {
	return "quote_expiry_sweep"
}

func (j *QuoteExpiryJob) Run(ctx context.Context) error {
	asOf := j.now()
	expired, err := j.repo.FindExpiredApproved(ctx, asOf, quoteExpiryBatchSize)
	if err != nil {
		return fmt.Errorf("find expired quotes: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	var errs error
	notified := 0
	for i := range expired {
		if err := j.notify(ctx, &expired[i], asOf); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("quote %s: %w", expired[i].ID, err))
			continue
		}
		notified++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"expired_found": len(expired),
		"notified":      notified,
	}), "quote expiry sweep finished")
	return errs
}

func (j *QuoteExpiryJob) notify(ctx context.Context, quote *models.Quote, asOf time.Time) error {
	return j.tx.WithTx(ctx, func(tx *gorm.DB) error {
		event := outbox.DomainEvent{
			EventType:     enums.EventQuoteExpired,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Data: quotes.QuoteExpiredEvent{
				QuoteID:       quote.ID,
				QuoteNumber:   quote.QuoteNumber,
				CustomerName:  quote.CustomerName,
				CustomerEmail: quote.CustomerEmail,
				ValidUntil:    derefTime(quote.ValidUntil),
			},
		}
		if err := j.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return err
		}
		return j.repo.WithTx(tx).StampExpiredNotified(ctx, quote.ID, asOf)
	})
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
