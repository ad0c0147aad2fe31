package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Output formats.
const (
	textFormat = "text"
	jsonFormat = "json"
	yamlFormat = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case textFormat, jsonFormat, yamlFormat:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeStructured renders v as JSON or YAML. Text output is command specific.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case yamlFormat:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}
