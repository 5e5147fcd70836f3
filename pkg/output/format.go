package output

import (
	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// Format selects how a table is emitted.
type Format string

const (
	FormatConsole Format = ""       // space-joined rows on stdout
	FormatPretty  Format = "pretty" // aligned table on stdout
	FormatFile    Format = "file"   // CSV file under the results directory
)

// Formats lists the values accepted by --output.
var Formats = []string{string(FormatPretty), string(FormatFile)}

// ParseFormat converts a flag value. The empty string selects console output.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatConsole, FormatPretty, FormatFile:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want one of %v)", s, Formats)
}
