package labels

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"gh-labeler/pkg/logging"
)

// Syncer runs a full reconciliation against one store.
type Syncer struct {
	store    Store
	planner  *Planner
	executor *Executor
	logger   zerolog.Logger
}

// NewSyncer wires a store to a planner and an executor. Nil arguments get
// the defaults.
func NewSyncer(store Store, planner *Planner, executor *Executor) *Syncer {
	if planner == nil {
		planner = NewPlanner()
	}
	if executor == nil {
		executor = NewExecutor()
	}
	return &Syncer{
		store:    store,
		planner:  planner,
		executor: executor,
		logger:   logging.GetLogger("syncer"),
	}
}

// Sync checks that the repository exists, takes one snapshot of its labels,
// plans against desired and executes the plan. Errors returned here are
// fatal and no result is produced; per-operation failures are in the result.
func (s *Syncer) Sync(ctx context.Context, desired []DesiredLabel, opts Options) (*Result, error) {
	done := logging.LogOperationStart(s.logger, "sync")
	defer done()

	plan, err := s.Plan(ctx, desired, opts)
	if err != nil {
		return nil, err
	}

	result := s.executor.Execute(ctx, plan, s.store, opts.DryRun)
	s.logger.Info().
		Bool("dry_run", opts.DryRun).
		Int("operations", result.Total()).
		Int("errors", len(result.Errors())).
		Msg("Sync finished")

	return result, nil
}

// Preview is Sync with DryRun forced on.
func (s *Syncer) Preview(ctx context.Context, desired []DesiredLabel, opts Options) (*Result, error) {
	opts.DryRun = true
	return s.Sync(ctx, desired, opts)
}

// Plan runs the precondition checks and returns the plan without executing it.
func (s *Syncer) Plan(ctx context.Context, desired []DesiredLabel, opts Options) ([]Operation, error) {
	exists, err := s.store.RepositoryExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check repository: %w", err)
	}
	if !exists {
		return nil, ErrRepositoryNotFound
	}

	current, err := s.store.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	s.logger.Debug().Int("observed", len(current)).Int("desired", len(desired)).Msg("Snapshot taken")

	return s.planner.Plan(NewObservedSet(current), desired, opts)
}
