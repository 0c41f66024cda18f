package labels

// DefaultLabels returns the starter label set written by `gh-labeler init`.
func DefaultLabels() []DesiredLabel {
	return []DesiredLabel{
		{
			Name:        "bug",
			Color:       "#d73a4a",
			Description: StringPtr("Something isn't working"),
			Aliases:     []string{"defect"},
		},
		{
			Name:        "enhancement",
			Color:       "#a2eeef",
			Description: StringPtr("New feature or request"),
			Aliases:     []string{"feature"},
		},
		{
			Name:        "documentation",
			Color:       "#0075ca",
			Description: StringPtr("Improvements or additions to documentation"),
			Aliases:     []string{"docs"},
		},
		{
			Name:        "duplicate",
			Color:       "#cfd3d7",
			Description: StringPtr("This issue or pull request already exists"),
		},
		{
			Name:        "good first issue",
			Color:       "#7057ff",
			Description: StringPtr("Good for newcomers"),
			Aliases:     []string{"beginner-friendly"},
		},
		{
			Name:        "help wanted",
			Color:       "#008672",
			Description: StringPtr("Extra attention is needed"),
		},
	}
}
