// Package logging provides the shared zap logger plus sanitizers that keep
// credentials and oversized prompts out of log output.
package logging

import (
	"go.uber.org/zap"
)

// New creates a logger appropriate for the environment: human-readable
// development output for "local", JSON production output otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
