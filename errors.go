package twominute

import (
	"errors"
	"fmt"
)

// ErrNoControlPoints is returned when a dither table is built from nothing.
var ErrNoControlPoints = errors.New("no dither control points")

// ConfigError reports malformed reference data (region CSV, dither control
// points). Loading stops at the first one; nothing is partially loaded.
type ConfigError struct {
	Source string // file name or logical source
	Line   int    // 1-based line, 0 when not applicable
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("configuration error in %s line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
