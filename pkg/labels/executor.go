package labels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gh-labeler/pkg/logging"
)

// DefaultOperationTimeout bounds a single store call.
const DefaultOperationTimeout = 30 * time.Second

// ErrLabelLost marks an update that deleted the old label but could not
// create the new one. The label stays missing until the next run.
var ErrLabelLost = errors.New("label deleted but not recreated")

// Executor applies a plan to a store one operation at a time.
type Executor struct {
	timeout time.Duration
	atomic  bool
	logger  zerolog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithOperationTimeout bounds every store call. Zero disables the bound.
func WithOperationTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithAtomicUpdates controls whether updates and renames use Updater when
// the store implements it. When disabled they always delete then create.
func WithAtomicUpdates(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.atomic = enabled
	}
}

// NewExecutor creates an executor with the default timeout and atomic
// updates enabled.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		timeout: DefaultOperationTimeout,
		atomic:  true,
		logger:  logging.GetLogger("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs plan in order and returns what happened. In dry-run mode the
// store is never called and every operation is recorded as if it succeeded.
// A failed operation is logged in the result and the next one still runs.
func (e *Executor) Execute(ctx context.Context, plan []Operation, store Store, dryRun bool) *Result {
	result := NewResult(dryRun)

	for _, op := range plan {
		if dryRun {
			result.AddOperation(op)
			continue
		}

		if err := e.apply(ctx, store, op); err != nil {
			e.logger.Warn().Err(err).Str("operation", op.String()).Msg("Operation failed")
			result.AddError(fmt.Sprintf("failed to %s: %v", op, err))
			continue
		}

		e.logger.Debug().Str("operation", op.String()).Msg("Operation applied")
		result.AddOperation(op)
	}

	return result
}

func (e *Executor) apply(ctx context.Context, store Store, op Operation) error {
	if op.Type == OperationNoChange {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch op.Type {
	case OperationCreate:
		return e.call(ctx, func(ctx context.Context) error {
			_, err := store.CreateLabel(ctx, *op.Label)
			return err
		})

	case OperationDelete:
		return e.call(ctx, func(ctx context.Context) error {
			return store.DeleteLabel(ctx, op.Name)
		})

	case OperationUpdate, OperationRename:
		if updater, ok := store.(Updater); ok && e.atomic {
			return e.call(ctx, func(ctx context.Context) error {
				_, err := updater.UpdateLabel(ctx, op.CurrentName, *op.Label)
				return err
			})
		}
		return e.replace(ctx, store, op)

	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

// replace deletes the current label and creates the desired one. There is
// no rollback when the create fails.
func (e *Executor) replace(ctx context.Context, store Store, op Operation) error {
	err := e.call(ctx, func(ctx context.Context) error {
		return store.DeleteLabel(ctx, op.CurrentName)
	})
	if err != nil {
		return err
	}

	err = e.call(ctx, func(ctx context.Context) error {
		_, err := store.CreateLabel(ctx, *op.Label)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: deleted '%s' but creating '%s' failed: %w", ErrLabelLost, op.CurrentName, op.Name, err)
	}
	return nil
}

func (e *Executor) call(ctx context.Context, fn func(context.Context) error) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return fn(ctx)
}
