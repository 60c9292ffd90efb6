package store

import (
	"context"
	"time"

	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/logging"
	"github.com/sportsbeams/pipeline/pkg/pipeline"
)

// Retry defaults. Delay doubles per attempt: base, 2x, 4x.
const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 250 * time.Millisecond
)

// retryStore decorates a Store with retry-on-transient behavior.
// Connectivity-class failures (detected by errors.IsTransient) are
// retried with exponential backoff; all other errors propagate
// immediately.
type retryStore struct {
	inner     Store
	attempts  int
	baseDelay time.Duration
}

// RetryOption configures the retry decorator.
type RetryOption func(*retryStore)

// WithAttempts sets the maximum number of attempts per operation.
func WithAttempts(n int) RetryOption {
	return func(r *retryStore) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBaseDelay sets the backoff base delay.
func WithBaseDelay(d time.Duration) RetryOption {
	return func(r *retryStore) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// WithRetry wraps a Store so that every operation retries transient
// connectivity failures.
func WithRetry(inner Store, opts ...RetryOption) Store {
	r := &retryStore{
		inner:     inner,
		attempts:  DefaultRetryAttempts,
		baseDelay: DefaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// do runs op up to r.attempts times, backing off between attempts.
func (r *retryStore) do(ctx context.Context, name string, op func() error) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay << (attempt - 1)
			logging.FromContext(ctx).Warn().
				Str("operation", name).
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Msg("Retrying store operation after transient failure")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = op()
		if err == nil || !errors.IsTransient(err) {
			return err
		}
	}
	return err
}

func (r *retryStore) Prospect(ctx context.Context, id string) (*pipeline.Prospect, error) {
	var p *pipeline.Prospect
	err := r.do(ctx, "prospect", func() (opErr error) {
		p, opErr = r.inner.Prospect(ctx, id)
		return opErr
	})
	return p, err
}

func (r *retryStore) ProspectByName(ctx context.Context, name string) (*pipeline.Prospect, error) {
	var p *pipeline.Prospect
	err := r.do(ctx, "prospect_by_name", func() (opErr error) {
		p, opErr = r.inner.ProspectByName(ctx, name)
		return opErr
	})
	return p, err
}

func (r *retryStore) ProspectByFuzzyName(ctx context.Context, name string) (*pipeline.Prospect, error) {
	var p *pipeline.Prospect
	err := r.do(ctx, "prospect_by_fuzzy_name", func() (opErr error) {
		p, opErr = r.inner.ProspectByFuzzyName(ctx, name)
		return opErr
	})
	return p, err
}

func (r *retryStore) CreateProspect(ctx context.Context, p *pipeline.Prospect) error {
	return r.do(ctx, "create_prospect", func() error {
		return r.inner.CreateProspect(ctx, p)
	})
}

func (r *retryStore) UpdateProspect(ctx context.Context, p *pipeline.Prospect) error {
	return r.do(ctx, "update_prospect", func() error {
		return r.inner.UpdateProspect(ctx, p)
	})
}

func (r *retryStore) ContactByEmail(ctx context.Context, prospectID, email string) (*pipeline.Contact, error) {
	var c *pipeline.Contact
	err := r.do(ctx, "contact_by_email", func() (opErr error) {
		c, opErr = r.inner.ContactByEmail(ctx, prospectID, email)
		return opErr
	})
	return c, err
}

func (r *retryStore) CreateContact(ctx context.Context, c *pipeline.Contact) error {
	return r.do(ctx, "create_contact", func() error {
		return r.inner.CreateContact(ctx, c)
	})
}

func (r *retryStore) UpdateContact(ctx context.Context, c *pipeline.Contact) error {
	return r.do(ctx, "update_contact", func() error {
		return r.inner.UpdateContact(ctx, c)
	})
}

func (r *retryStore) Score(ctx context.Context, prospectID string, dim pipeline.Dimension) (*pipeline.ProspectScore, error) {
	var s *pipeline.ProspectScore
	err := r.do(ctx, "score", func() (opErr error) {
		s, opErr = r.inner.Score(ctx, prospectID, dim)
		return opErr
	})
	return s, err
}

func (r *retryStore) CreateScore(ctx context.Context, s *pipeline.ProspectScore) error {
	return r.do(ctx, "create_score", func() error {
		return r.inner.CreateScore(ctx, s)
	})
}

func (r *retryStore) CreateActivity(ctx context.Context, a *pipeline.Activity) error {
	return r.do(ctx, "create_activity", func() error {
		return r.inner.CreateActivity(ctx, a)
	})
}

// Transact retries the whole transaction on a transient failure. The
// failed attempt has already rolled back, so re-running fn on a fresh
// transaction cannot double-apply. The Store handed to fn is not retry
// wrapped: an error inside an open transaction aborts it regardless.
func (r *retryStore) Transact(ctx context.Context, fn func(Store) error) error {
	return r.do(ctx, "transact", func() error {
		return r.inner.Transact(ctx, fn)
	})
}
