package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONFormatter writes data as two-space indented JSON.
type JSONFormatter struct{}

func (*JSONFormatter) Format(w io.Writer, data any) error { return writeJSON(w, data) }

// YAMLFormatter writes data as YAML, indented by two spaces.
type YAMLFormatter struct{}

func (*YAMLFormatter) Format(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
