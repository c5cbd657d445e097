package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// LoadProgram reads every program file found under paths and merges
	// them into one Program.
	LoadProgram(ctx context.Context, paths ...string) (*Program, error)

	// LoadScript reads every scripted event found under paths, in file
	// then declaration order.
	LoadScript(ctx context.Context, paths ...string) (*Script, error)
}

// Converter bridges native Go values and the cty values programs compute
// with.
type Converter interface {
	// ToCtyValue converts a native Go value into its cty equivalent. cty
	// values pass through unchanged.
	ToCtyValue(v any) (cty.Value, error)
}
