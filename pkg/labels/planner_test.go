package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observed(labels ...ObservedLabel) *ObservedSet {
	return NewObservedSet(labels)
}

func obs(name, color string) ObservedLabel {
	return ObservedLabel{Name: name, Color: color}
}

func TestPlanner_Scenarios(t *testing.T) {
	planner := NewPlanner()

	t.Run("create into empty repository", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a"}}

		plan, err := planner.Plan(observed(), desired, Options{})
		require.NoError(t, err)

		require.Len(t, plan, 1)
		assert.Equal(t, OperationCreate, plan[0].Type)
		assert.Equal(t, "bug", plan[0].Name)
		assert.Equal(t, desired[0], *plan[0].Label)
	})

	t.Run("alias renames existing label", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a", Aliases: []string{"defect"}}}

		plan, err := planner.Plan(observed(obs("defect", "d73a4a")), desired, Options{})
		require.NoError(t, err)

		assert.Equal(t, []Operation{RenameOperation("defect", desired[0])}, plan)
	})

	t.Run("color change produces update", func(t *testing.T) {
		current := ObservedLabel{Name: "bug", Color: "d73a4a", Description: StringPtr("old")}
		desired := []DesiredLabel{{Name: "bug", Color: "#ff0000", Description: StringPtr("old")}}

		plan, err := planner.Plan(observed(current), desired, Options{})
		require.NoError(t, err)

		require.Len(t, plan, 1)
		assert.Equal(t, OperationUpdate, plan[0].Type)
		assert.Equal(t, "bug", plan[0].CurrentName)
		assert.Equal(t, []string{"color: d73a4a -> ff0000"}, plan[0].Changes)
	})

	t.Run("unchanged label and unknown label", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a"}}

		plan, err := planner.Plan(observed(obs("bug", "d73a4a"), obs("extra", "ffffff")), desired, Options{})
		require.NoError(t, err)

		assert.Equal(t, []Operation{
			NoChangeOperation("bug"),
			DeleteOperation("extra", ReasonNotInConfig),
		}, plan)
	})

	t.Run("similar name renames", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug-report", Color: "#d73a4a"}}

		plan, err := planner.Plan(observed(obs("bug-reports", "d73a4a")), desired, Options{})
		require.NoError(t, err)

		assert.Equal(t, []Operation{RenameOperation("bug-reports", desired[0])}, plan)
	})
}

func TestPlanner_DeleteEntries(t *testing.T) {
	planner := NewPlanner()

	t.Run("existing label marked for deletion", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "wontfix", Delete: true}}

		plan, err := planner.Plan(observed(obs("wontfix", "ffffff")), desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Equal(t, []Operation{DeleteOperation("wontfix", ReasonMarkedForDeletion)}, plan)
	})

	t.Run("missing label marked for deletion emits nothing", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "wontfix", Delete: true}}

		plan, err := planner.Plan(observed(), desired, Options{})
		require.NoError(t, err)

		assert.Empty(t, plan)
	})

	t.Run("deleted label is not deleted twice by cleanup", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "wontfix", Delete: true}}

		plan, err := planner.Plan(observed(obs("wontfix", "ffffff")), desired, Options{})
		require.NoError(t, err)

		assert.Equal(t, []Operation{DeleteOperation("wontfix", ReasonMarkedForDeletion)}, plan)
	})

	t.Run("delete entry does not fall through to similarity", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "wontfix", Delete: true}}

		plan, err := planner.Plan(observed(obs("wontfixx", "ffffff")), desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Empty(t, plan)
	})
}

func TestPlanner_ExactMatchPrecedence(t *testing.T) {
	planner := NewPlanner()
	desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a", Aliases: []string{"defect"}}}

	plan, err := planner.Plan(observed(obs("bug", "d73a4a"), obs("defect", "d73a4a")), desired, Options{AllowAddedLabels: true})
	require.NoError(t, err)

	assert.Equal(t, []Operation{NoChangeOperation("bug")}, plan)
}

func TestPlanner_AliasPrecedence(t *testing.T) {
	planner := NewPlanner()

	t.Run("first matching alias wins", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a", Aliases: []string{"defect", "bugs"}}}

		plan, err := planner.Plan(observed(obs("bugs", "d73a4a"), obs("defect", "d73a4a")), desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		require.Len(t, plan, 1)
		assert.Equal(t, "defect", plan[0].CurrentName)
	})

	t.Run("alias beats a closer similar name", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a", Aliases: []string{"problem"}}}

		plan, err := planner.Plan(observed(obs("bugs", "d73a4a"), obs("problem", "d73a4a")), desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		require.Len(t, plan, 1)
		assert.Equal(t, OperationRename, plan[0].Type)
		assert.Equal(t, "problem", plan[0].CurrentName)
	})

	t.Run("claimed alias is skipped", func(t *testing.T) {
		desired := []DesiredLabel{
			{Name: "bug", Color: "#d73a4a", Aliases: []string{"defect"}},
			{Name: "error", Color: "#000000", Aliases: []string{"defect"}},
		}

		plan, err := planner.Plan(observed(obs("defect", "d73a4a")), desired, Options{})
		require.NoError(t, err)

		require.Len(t, plan, 2)
		assert.Equal(t, RenameOperation("defect", desired[0]), plan[0])
		assert.Equal(t, CreateOperation(desired[1]), plan[1])
	})
}

func TestPlanner_SimilarityThreshold(t *testing.T) {
	desired := []DesiredLabel{{Name: "target", Color: "#000000"}}
	current := observed(obs("candidate", "000000"))

	t.Run("score equal to threshold creates", func(t *testing.T) {
		planner := NewPlanner(WithScorer(func(a, b string) float64 { return 0.7 }))

		plan, err := planner.Plan(current, desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Equal(t, []Operation{CreateOperation(desired[0])}, plan)
	})

	t.Run("score above threshold renames", func(t *testing.T) {
		planner := NewPlanner(WithScorer(func(a, b string) float64 { return 0.70000001 }))

		plan, err := planner.Plan(current, desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Equal(t, []Operation{RenameOperation("candidate", desired[0])}, plan)
	})

	t.Run("real scorer at exactly 0.7 creates", func(t *testing.T) {
		desired := []DesiredLabel{{Name: "abcdefgxyz", Color: "#000000"}}

		plan, err := NewPlanner().Plan(observed(obs("abcdefghij", "000000")), desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Equal(t, []Operation{CreateOperation(desired[0])}, plan)
	})
}

func TestPlanner_SimilarityTieBreak(t *testing.T) {
	desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a"}}

	// "bugs" and "bug!" are both one edit away from "bug".
	for i := 0; i < 20; i++ {
		plan, err := NewPlanner().Plan(observed(obs("bugs", "d73a4a"), obs("bug!", "d73a4a")), desired, Options{})
		require.NoError(t, err)

		require.Len(t, plan, 2)
		assert.Equal(t, RenameOperation("bug!", desired[0]), plan[0])
		assert.Equal(t, DeleteOperation("bugs", ReasonNotInConfig), plan[1])
	}
}

func TestPlanner_DeletionGating(t *testing.T) {
	current := observed(obs("zeta", "000000"), obs("alpha", "000000"), obs("bug", "d73a4a"))
	desired := []DesiredLabel{{Name: "bug", Color: "#d73a4a"}}

	t.Run("unclaimed labels are deleted in name order", func(t *testing.T) {
		plan, err := NewPlanner().Plan(current, desired, Options{})
		require.NoError(t, err)

		assert.Equal(t, []Operation{
			NoChangeOperation("bug"),
			DeleteOperation("alpha", ReasonNotInConfig),
			DeleteOperation("zeta", ReasonNotInConfig),
		}, plan)
	})

	t.Run("allow added labels keeps them", func(t *testing.T) {
		plan, err := NewPlanner().Plan(current, desired, Options{AllowAddedLabels: true})
		require.NoError(t, err)

		assert.Equal(t, []Operation{NoChangeOperation("bug")}, plan)
	})
}

func TestPlanner_Idempotence(t *testing.T) {
	desired := DefaultLabels()
	desired = append(desired, DesiredLabel{Name: "stale", Delete: true})

	plan, err := NewPlanner().Plan(observed(), desired, Options{})
	require.NoError(t, err)

	// Apply the plan to an in-memory snapshot.
	var after []ObservedLabel
	for _, op := range plan {
		if op.Type == OperationCreate {
			after = append(after, ObservedLabel{
				Name:        op.Label.Name,
				Color:       NormalizeColor(op.Label.Color),
				Description: op.Label.Description,
			})
		}
	}

	again, err := NewPlanner().Plan(NewObservedSet(after), desired, Options{})
	require.NoError(t, err)

	require.Len(t, again, len(DefaultLabels()))
	for _, op := range again {
		assert.Equal(t, OperationNoChange, op.Type, op.String())
	}
}

func TestPlanner_DuplicateNames(t *testing.T) {
	desired := []DesiredLabel{
		{Name: "bug", Color: "#d73a4a"},
		{Name: "bug", Color: "#ff0000"},
	}

	plan, err := NewPlanner().Plan(observed(), desired, Options{})
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Nil(t, plan)
}

func TestPlanner_NilObservedSet(t *testing.T) {
	plan, err := NewPlanner().Plan(nil, []DesiredLabel{{Name: "bug", Color: "#d73a4a"}}, Options{})
	require.NoError(t, err)
	assert.Len(t, plan, 1)
}

func TestDetectChanges(t *testing.T) {
	tests := []struct {
		name     string
		current  ObservedLabel
		desired  DesiredLabel
		expected []string
	}{
		{
			name:    "color compared case-insensitively without hash",
			current: ObservedLabel{Name: "bug", Color: "D73A4A"},
			desired: DesiredLabel{Name: "bug", Color: "#d73a4a"},
		},
		{
			name:     "absent and empty description differ",
			current:  ObservedLabel{Name: "bug", Color: "d73a4a"},
			desired:  DesiredLabel{Name: "bug", Color: "#d73a4a", Description: StringPtr("")},
			expected: []string{"description: (none) -> "},
		},
		{
			name:     "description removed",
			current:  ObservedLabel{Name: "bug", Color: "d73a4a", Description: StringPtr("old")},
			desired:  DesiredLabel{Name: "bug", Color: "#d73a4a"},
			expected: []string{"description: old -> (none)"},
		},
		{
			name:    "color before description",
			current: ObservedLabel{Name: "bug", Color: "d73a4a", Description: StringPtr("old")},
			desired: DesiredLabel{Name: "bug", Color: "#ff0000", Description: StringPtr("new")},
			expected: []string{
				"color: d73a4a -> ff0000",
				"description: old -> new",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectChanges(tt.current, tt.desired))
		})
	}
}
