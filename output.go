package twominute

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is the encoding used for written artifacts.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "json" or "msgpack", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Marshal encodes v in format f.
func (f Format) Marshal(v any) ([]byte, error) {
	switch f {
	case FormatMsgpack:
		return msgpack.Marshal(v)
	case FormatJSON, "":
		return json.Marshal(v)
	}
	return nil, fmt.Errorf("unknown output format %q", string(f))
}

// fileName swaps a .json extension for the format's own.
func (f Format) fileName(name string) string {
	if f == FormatMsgpack && strings.HasSuffix(name, ".json") {
		return strings.TrimSuffix(name, ".json") + ".msgpack"
	}
	return name
}

func writeArtifact(dir, name string, f Format, v any) (string, error) {
	data, err := f.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(dir, f.fileName(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
