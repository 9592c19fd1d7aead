// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance writing to the specified [io.Writer], with timestamps enabled.
//
// The writer defaults to [os.Stderr] so stdout stays reserved for command output.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true}
	return log.NewWithOptions(w, opts)
}

// GenerateState generates a new v4 [uuid.UUID] string, used as the OAuth state
// parameter for CSRF protection.
func GenerateState() string {
	return uuid.New().String()
}

// MarshalJSON serializes data, optionally indented for terminal output.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
