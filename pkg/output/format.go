package output

import (
	"fmt"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Format selects how a result table is emitted
type Format int

const (
	FormatDefault Format = iota // space-joined rows on stdout
	FormatPretty                // aligned table on stdout
	FormatFile                  // timestamped CSV in the results directory
)

func (f Format) String() string {
	switch f {
	case FormatDefault:
		return "default"
	case FormatPretty:
		return "pretty"
	case FormatFile:
		return "file"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatNames lists the values accepted by --output
func FormatNames() []string {
	return []string{FormatPretty.String(), FormatFile.String()}
}

// ParseFormat maps an --output value to a Format. The empty string selects the
// default console output; anything unrecognized is an error.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "":
		return FormatDefault, nil
	case FormatPretty.String():
		return FormatPretty, nil
	case FormatFile.String():
		return FormatFile, nil
	default:
		return FormatDefault, fmt.Errorf("%w: '%s' (choose from pretty, file)", utils.ErrUnknownOutput, name)
	}
}
