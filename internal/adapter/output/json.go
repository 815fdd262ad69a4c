package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// JSONFormatter formats notices as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes notices as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, notices []model.Notice) error {
	if notices == nil {
		notices = []model.Notice{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(notices)
}

// FormatSingle writes a single notice as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, n *model.Notice) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(n)
}

// YAMLFormatter formats notices as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes notices as a YAML sequence.
func (f *YAMLFormatter) Format(w io.Writer, notices []model.Notice) error {
	if notices == nil {
		notices = []model.Notice{}
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(notices); err != nil {
		return err
	}
	return encoder.Close()
}
