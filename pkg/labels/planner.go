package labels

import (
	"fmt"

	"github.com/rs/zerolog"

	"gh-labeler/pkg/fuzzy"
	"gh-labeler/pkg/logging"
)

// Planner turns an observed snapshot and a desired list into an ordered plan.
type Planner struct {
	score  fuzzy.Scorer
	logger zerolog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithScorer replaces the name similarity function.
func WithScorer(score fuzzy.Scorer) PlannerOption {
	return func(p *Planner) {
		p.score = score
	}
}

// NewPlanner creates a planner that uses fuzzy.Similarity unless told otherwise.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{
		score:  fuzzy.Similarity,
		logger: logging.GetLogger("planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan resolves each desired label in list order. Every observed label is
// claimed by at most one desired entry, first come first served. Labels that
// nobody claims are deleted unless opts.AllowAddedLabels is set.
func (p *Planner) Plan(observed *ObservedSet, desired []DesiredLabel, opts Options) ([]Operation, error) {
	if observed == nil {
		observed = NewObservedSet(nil)
	}
	if err := checkDuplicates(desired); err != nil {
		return nil, err
	}

	processed := make(map[string]bool, observed.Len())
	plan := make([]Operation, 0, len(desired))

	for _, d := range desired {
		if d.Delete {
			if _, ok := observed.Get(d.Name); ok && !processed[d.Name] {
				plan = append(plan, DeleteOperation(d.Name, ReasonMarkedForDeletion))
				processed[d.Name] = true
			}
			continue
		}

		op, claimed := p.resolve(observed, processed, d)
		if claimed != "" {
			processed[claimed] = true
		}
		p.logger.Debug().
			Str("label", d.Name).
			Str("operation", string(op.Type)).
			Str("matched", claimed).
			Msg("Resolved desired label")
		plan = append(plan, op)
	}

	if !opts.AllowAddedLabels {
		for _, name := range observed.Names() {
			if !processed[name] {
				plan = append(plan, DeleteOperation(name, ReasonNotInConfig))
			}
		}
	}

	return plan, nil
}

// resolve returns the operation for d and the observed name it claims, if any.
func (p *Planner) resolve(observed *ObservedSet, processed map[string]bool, d DesiredLabel) (Operation, string) {
	if current, ok := observed.Get(d.Name); ok && !processed[d.Name] {
		changes := DetectChanges(current, d)
		if len(changes) == 0 {
			return NoChangeOperation(d.Name), d.Name
		}
		return UpdateOperation(current.Name, d, changes), d.Name
	}

	for _, alias := range d.Aliases {
		if _, ok := observed.Get(alias); ok && !processed[alias] {
			return RenameOperation(alias, d), alias
		}
	}

	var candidates []string
	for _, name := range observed.Names() {
		if !processed[name] {
			candidates = append(candidates, name)
		}
	}
	if match, ok := fuzzy.BestMatch(d.Name, candidates, p.score); ok {
		p.logger.Debug().
			Str("label", d.Name).
			Str("candidate", match.Name).
			Float64("score", match.Score).
			Msg("Similar label found")
		return RenameOperation(match.Name, d), match.Name
	}

	return CreateOperation(d), ""
}

// DetectChanges lists the differences between current and d, color first.
// An absent description and an empty one are different.
func DetectChanges(current ObservedLabel, d DesiredLabel) []string {
	var changes []string

	have, want := NormalizeColor(current.Color), NormalizeColor(d.Color)
	if have != want {
		changes = append(changes, fmt.Sprintf("color: %s -> %s", have, want))
	}

	if !sameDescription(current.Description, d.Description) {
		changes = append(changes, fmt.Sprintf("description: %s -> %s", describe(current.Description), describe(d.Description)))
	}

	return changes
}

func sameDescription(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func checkDuplicates(desired []DesiredLabel) error {
	seen := make(map[string]bool, len(desired))
	for _, d := range desired {
		if seen[d.Name] {
			return fmt.Errorf("%w: '%s'", ErrDuplicateLabel, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
