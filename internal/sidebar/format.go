package sidebar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an on-disk representation of a Config.
type Format string

const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJS, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common alias ("yml", "javascript").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "js", "javascript", "cjs", "mjs", "ts":
		return FormatJS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want js, json or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// ContentType is the HTTP media type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJS:
		return "text/javascript; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Ext is the conventional file extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Encode writes cfg to w in format f.
func Encode(w io.Writer, cfg Config, f Format) error {
	switch f {
	case FormatJS:
		return EncodeJS(w, cfg)
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sidebars json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode sidebars yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Decode reads a Config in format f from r.
func Decode(r io.Reader, f Format) (Config, error) {
	var cfg Config
	switch f {
	case FormatJS:
		return DecodeJS(r)
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return Config{}, errors.New("sidebars json is empty")
			}
			return Config{}, fmt.Errorf("decode sidebars json: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Config{}, errors.New("decode sidebars json: unexpected data after the top-level object")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return Config{}, errors.New("sidebars yaml is empty")
			}
			return Config{}, fmt.Errorf("decode sidebars yaml: %w", err)
		}
		var rest yaml.Node
		if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
			return Config{}, errors.New("decode sidebars yaml: expected a single document")
		}
	default:
		return Config{}, fmt.Errorf("unknown format %q", f)
	}
	return cfg, nil
}
