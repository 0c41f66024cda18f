package labels

import (
	"fmt"
	"strings"
)

// NormalizeColor strips a leading '#' and lower-cases the rest.
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimPrefix(color, "#"))
}

// ValidateColor checks that color is '#' followed by exactly six hex digits.
func ValidateColor(color string) error {
	if !strings.HasPrefix(color, "#") {
		return fmt.Errorf("%w: %q must start with '#'", ErrInvalidColor, color)
	}

	hex := color[1:]
	if len(hex) != 6 {
		return fmt.Errorf("%w: %q must have exactly 6 hex digits", ErrInvalidColor, color)
	}
	for _, c := range hex {
		if !isHexDigit(c) {
			return fmt.Errorf("%w: %q contains non-hex character %q", ErrInvalidColor, color, c)
		}
	}

	return nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Repository identifies a repository as owner/name.
type Repository struct {
	Owner string
	Name  string
}

// String returns owner/name.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses "owner/repo". Both parts must be non-empty and
// there must be exactly one separator.
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("%w: %q, expected owner/repo", ErrInvalidRepository, s)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}
