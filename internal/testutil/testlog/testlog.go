// Package testlog gives every test a quiet, consistently configured
// logger so test output stays readable.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

// Start configures logging for one test and returns a logger scoped to
// the test's output.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	return zerolog.New(zerolog.NewTestWriter(t)).With().Str("test", t.Name()).Logger()
}
