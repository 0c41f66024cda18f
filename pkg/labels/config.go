package labels

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a label configuration.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ConventionFiles are the paths searched, in order, when no configuration
// is named explicitly.
var ConventionFiles = []string{
	".gh-labeler.json",
	".gh-labeler.yaml",
	".gh-labeler.yml",
	".github/labels.json",
	".github/labels.yaml",
	".github/labels.yml",
}

//go:embed labels.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func labelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse label schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("labels.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to add label schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("labels.schema.json")
	})
	return compiledSchema, schemaErr
}

// DetectFormat guesses the format of data: JSON if it starts with '[' or
// '{' after leading whitespace, YAML otherwise.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s (expected .json, .yaml or .yml)", ErrUnsupportedFormat, path)
	}
}

// ParseFormat parses a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// ParseLabels checks data against the label schema, decodes it and runs
// ValidateLabels.
func ParseLabels(data []byte, format Format) ([]DesiredLabel, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := labelSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse label configuration: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		var errs ValidationErrors
		errs.Add("labels", "", err.Error())
		return nil, errs
	}

	var labels []DesiredLabel
	if err := json.Unmarshal(doc, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode label configuration: %w", err)
	}

	if err := ValidateLabels(labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// toJSON normalizes a document to JSON so schema validation and decoding
// share one path.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse YAML label configuration: %w", err)
		}
		if v == nil {
			v = []any{}
		}
		doc, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML label configuration: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ValidateLabels reports every problem in labels at once.
func ValidateLabels(labels []DesiredLabel) error {
	var errs ValidationErrors
	seen := make(map[string]int, len(labels))

	for i, l := range labels {
		field := fmt.Sprintf("labels[%d]", i)

		if strings.TrimSpace(l.Name) == "" {
			errs.Add(field+".name", l.Name, "name is required")
		} else if first, dup := seen[l.Name]; dup {
			errs.Add(field+".name", l.Name, fmt.Sprintf("duplicate of labels[%d]", first))
		} else {
			seen[l.Name] = i
		}

		if !l.Delete || l.Color != "" {
			if err := ValidateColor(l.Color); err != nil {
				errs.Add(field+".color", l.Color, "color must be '#' followed by 6 hex digits")
			}
		}

		for j, alias := range l.Aliases {
			aliasField := fmt.Sprintf("%s.aliases[%d]", field, j)
			switch {
			case strings.TrimSpace(alias) == "":
				errs.Add(aliasField, alias, "alias must not be empty")
			case alias == l.Name:
				errs.Add(aliasField, alias, "alias must differ from the label name")
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// LoadLabelsFromFile reads a configuration whose format follows its extension.
func LoadLabelsFromFile(path string) ([]DesiredLabel, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseLabels(data, format)
}

// FindConventionConfig returns the first convention file that exists under dir.
func FindConventionConfig(dir string) (string, error) {
	searched := make([]string, 0, len(ConventionFiles))
	for _, name := range ConventionFiles {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		searched = append(searched, path)
	}
	return "", &ConfigNotFoundError{Searched: searched}
}

// MarshalLabels encodes labels in the given format.
func MarshalLabels(labels []DesiredLabel, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(labels, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(labels); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
