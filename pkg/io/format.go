package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Format is a bundle encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer bundle format from %q (use .json, .yaml or .yml)", path)
}

// Read decodes and validates a bundle from r. Read does not close r.
func Read(r io.Reader, f Format) (*Bundle, error) {
	var b Bundle
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON bundle")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML bundle")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown bundle format %q", f)
	}
	if err := Validate(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Write encodes b to w.
func Write(w io.Writer, b *Bundle, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown bundle format %q", f)
}

// ReadFile reads a bundle, choosing the encoding from the extension.
func ReadFile(path string) (*Bundle, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Read(file, f)
}

// WriteFile writes a bundle, choosing the encoding from the extension.
func WriteFile(path string, b *Bundle) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(file, b, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
