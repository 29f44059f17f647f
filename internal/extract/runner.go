package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned by Start while another extraction is in flight.
	ErrBusy = errors.New("extraction already in progress")

	// ErrEmptyInput is returned by Start for blank text.
	ErrEmptyInput = errors.New("nothing to extract from")
)

// Runner runs one extraction at a time. A second extraction is refused while the first one is in
// flight rather than cancelling it.
type Runner struct {
	extractor Extractor
	logger    *zap.Logger
	busy      atomic.Bool
}

func NewRunner(extractor Extractor, logger *zap.Logger) *Runner {
	return &Runner{extractor: extractor, logger: logger}
}

// Busy reports whether an extraction is in flight.
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Start begins an extraction in the background. Exactly one result is delivered on the returned
// channel, which is closed afterwards. The extraction is cancelled through ctx.
func (r *Runner) Start(ctx context.Context, text string) (<-chan Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	results := make(chan Result, 1)
	go func() {
		result := r.run(ctx, text)
		r.busy.Store(false)
		results <- result
		close(results)
	}()
	return results, nil
}

// Extract runs an extraction and waits for its result.
func (r *Runner) Extract(ctx context.Context, text string) (Result, error) {
	results, err := r.Start(ctx, text)
	if err != nil {
		return Result{}, err
	}
	return <-results, nil
}

// run calls the extractor. A panicking extractor counts as a failed extraction.
func (r *Runner) run(ctx context.Context, text string) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			result = Result{Outcome: Failed, Err: fmt.Errorf("extractor panicked: %v", p)}
		}
		r.log(result)
	}()

	result = r.extractor.Extract(ctx, text)
	switch result.Outcome {
	case Extracted:
		result.Name = Truncate(result.Name, model.MaxNameLength)
		result.Phone = Truncate(result.Phone, model.MaxPhoneLength)
		result.Err = nil
	case NotFound:
		result = Result{Outcome: NotFound}
	default:
		if result.Err == nil {
			result.Err = errors.New("extraction failed")
		}
		result = Result{Outcome: Failed, Err: result.Err}
	}
	return result
}

func (r *Runner) log(result Result) {
	switch result.Outcome {
	case Failed:
		r.logger.Warn("contact extraction failed", zap.Error(result.Err))
	default:
		r.logger.Debug("contact extraction finished", zap.Stringer("outcome", result.Outcome))
	}
}
