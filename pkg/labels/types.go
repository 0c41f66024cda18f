package labels

import (
	"sort"
)

// DesiredLabel is one entry of a label configuration.
type DesiredLabel struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	// Description distinguishes absent (nil) from empty.
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Delete      bool     `json:"delete,omitempty" yaml:"delete,omitempty"`
}

// ObservedLabel is a label as reported by the store.
type ObservedLabel struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Color       string  `json:"color" yaml:"color"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     bool    `json:"default" yaml:"default"`
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// ObservedSet is a name-keyed snapshot of the store's labels. It is built
// once per run and never refreshed.
type ObservedSet struct {
	labels map[string]ObservedLabel
}

// NewObservedSet indexes labels by name. A later label with the same name
// replaces an earlier one.
func NewObservedSet(labels []ObservedLabel) *ObservedSet {
	set := &ObservedSet{labels: make(map[string]ObservedLabel, len(labels))}
	for _, l := range labels {
		set.labels[l.Name] = l
	}
	return set
}

// Get returns the observed label with the given name.
func (s *ObservedSet) Get(name string) (ObservedLabel, bool) {
	l, ok := s.labels[name]
	return l, ok
}

// Names returns every label name in ascending order.
func (s *ObservedSet) Names() []string {
	names := make([]string, 0, len(s.labels))
	for name := range s.labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of labels in the set.
func (s *ObservedSet) Len() int {
	return len(s.labels)
}

// Options controls a reconciliation run.
type Options struct {
	// AllowAddedLabels keeps observed labels that no desired entry claims.
	AllowAddedLabels bool
	// DryRun plans and counts without calling the store.
	DryRun bool
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func describe(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}
