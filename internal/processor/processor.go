// Package processor implements the marketplace transaction validation
// engine: one guarded state transition per transaction kind. Every handler
// is a function of the current state view, the verified signer identity,
// and the decoded payload; it either commits a sequence of state mutations
// or rejects with an InvalidTransactionError and no side effects. All
// handlers follow validate-then-apply: every precondition is checked before
// any mutation, and apply steps perform no further checking.
package processor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// Processor applies marketplace transactions against an injected state
// context. It holds no entity state between invocations; each Apply call
// builds and discards its own working set.
type Processor struct {
	context state.StateContext
	timeout time.Duration
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithTimeout bounds each state context call.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Processor) { p.timeout = timeout }
}

// WithLogger sets the processor's structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithMetrics sets the processor's metrics collector.
func WithMetrics(metrics *Metrics) Option {
	return func(p *Processor) { p.metrics = metrics }
}

// New creates a processor over the given state context.
func New(sc state.StateContext, opts ...Option) *Processor {
	p := &Processor{
		context: sc,
		timeout: state.DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply validates and applies one transaction. The signer public key must
// already be verified by the transaction envelope collaborator. A returned
// InvalidTransactionError is a rejection with zero mutation; any other
// error is an engine fault.
func (p *Processor) Apply(ctx context.Context, signer string, pl payload.Payload) error {
	start := time.Now()
	kind := string(pl.Kind())
	st := state.New(ctx, p.context, p.timeout)

	var err error
	switch tx := pl.(type) {
	case payload.CreateAccount:
		err = applyCreateAccount(st, signer, tx)
	case payload.CreateResource:
		err = applyCreateResource(st, signer, tx)
	case payload.CreateAsset:
		err = applyCreateAsset(st, signer, tx)
	case payload.CreateOffer:
		err = applyCreateOffer(st, signer, tx)
	case payload.AcceptOffer:
		err = applyAcceptOffer(st, signer, tx)
	case payload.CloseOffer:
		err = applyCloseOffer(st, signer, tx)
	case payload.TransferAsset:
		err = applyTransferAsset(st, signer, tx)
	default:
		err = invalidf("unknown transaction kind %q", pl.Kind())
	}

	elapsed := time.Since(start)
	switch {
	case err == nil:
		p.metrics.observeApplied(kind, elapsed)
		p.logger.Info("transaction applied",
			zap.String("kind", kind),
			zap.String("signer", signer),
			zap.Duration("elapsed", elapsed))
	case IsInvalidTransaction(err):
		p.metrics.observeRejected(kind, elapsed)
		p.logger.Info("transaction rejected",
			zap.String("kind", kind),
			zap.String("signer", signer),
			zap.String("reason", err.Error()))
	default:
		p.metrics.observeFault(kind, elapsed)
		p.logger.Error("invocation aborted",
			zap.String("kind", kind),
			zap.String("signer", signer),
			zap.Error(err))
	}
	return err
}
