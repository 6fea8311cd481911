// Package emitter renders a validated model.BuildDescriptor into the
// parameter surface consumed by the external build tool.
//
// Every function here is pure and deterministic: the same descriptor always
// produces byte-identical output, and nothing is executed or written to
// disk. Invoking Gradle with the result is the caller's job.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// Format selects the rendering produced by Emit.
type Format string

const (
	// FormatArgs renders one Gradle project property flag per line:
	// -PminSdk=21
	FormatArgs Format = "args"

	// FormatProperties renders a gradle.properties-style file.
	FormatProperties Format = "properties"

	// FormatJSON renders the descriptor as indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders the descriptor as a YAML document.
	FormatYAML Format = "yaml"

	// FormatLabels renders the flat image label map (see labels.go).
	FormatLabels Format = "labels"
)

// Formats lists every supported format.
var Formats = []Format{FormatArgs, FormatProperties, FormatJSON, FormatYAML, FormatLabels}

// String returns the string representation of Format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format: %q (valid: args, properties, json, yaml, labels)", s)
}

// Param is one named build parameter.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Params returns the descriptor as ordered name/value pairs, following
// model.Fields. Optional fields that are unset are omitted.
func Params(d model.BuildDescriptor) []Param {
	params := make([]Param, 0, len(model.Fields))
	for _, field := range model.Fields {
		value, _ := d.Value(field)
		if value == "" {
			continue
		}
		params = append(params, Param{Name: field, Value: value})
	}
	return params
}

// GradleArgs returns the -P project property flags for a Gradle invocation.
// Each element is a single argv entry, so values need no shell quoting.
func GradleArgs(d model.BuildDescriptor) []string {
	params := Params(d)
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = "-P" + p.Name + "=" + p.Value
	}
	return args
}

// Emit renders the descriptor in the requested format.
func Emit(d model.BuildDescriptor, format Format) ([]byte, error) {
	switch format {
	case FormatArgs:
		return []byte(strings.Join(GradleArgs(d), "\n") + "\n"), nil
	case FormatProperties:
		return emitProperties(d)
	case FormatJSON:
		return emitJSON(d)
	case FormatYAML:
		return emitYAML(d)
	case FormatLabels:
		return emitLabels(d)
	default:
		return nil, fmt.Errorf("invalid output format: %q", format)
	}
}

// header is prepended to file formats that support comments.
const header = "# Generated by build-descriptor. DO NOT EDIT.\n"

func emitProperties(d model.BuildDescriptor) ([]byte, error) {
	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, param := range Params(d) {
		if _, _, err := p.Set(param.Name, param.Value); err != nil {
			return nil, fmt.Errorf("failed to set property %s: %w", param.Name, err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, fmt.Errorf("failed to serialize properties: %w", err)
	}
	return buf.Bytes(), nil
}

func emitJSON(d model.BuildDescriptor) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize descriptor JSON: %w", err)
	}
	// Trailing newline for POSIX text files.
	return append(data, '\n'), nil
}

func emitYAML(d model.BuildDescriptor) ([]byte, error) {
	data, err := yaml.Marshal(&d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize descriptor YAML: %w", err)
	}
	return append([]byte(header), data...), nil
}

func emitLabels(d model.BuildDescriptor) ([]byte, error) {
	data, err := json.MarshalIndent(BuildLabels(d), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize descriptor labels: %w", err)
	}
	return append(data, '\n'), nil
}
