package extract

import (
	"fmt"
	"strings"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Mode selects one report
type Mode int

const (
	ModeWhatsNew Mode = iota
	ModeLatestVersions
	ModeDownload
	ModePEP
)

var modeNames = [...]string{
	ModeWhatsNew:       "whats-new",
	ModeLatestVersions: "latest-versions",
	ModeDownload:       "download",
	ModePEP:            "pep",
}

// String returns the CLI name of the mode
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// AllModes lists every mode in CLI order
func AllModes() []Mode {
	return []Mode{ModeWhatsNew, ModeLatestVersions, ModeDownload, ModePEP}
}

// ModeNames lists the CLI names of every mode
func ModeNames() []string {
	names := make([]string, 0, len(modeNames))
	for _, m := range AllModes() {
		names = append(names, m.String())
	}
	return names
}

// ParseMode maps a CLI name to its Mode
func ParseMode(name string) (Mode, error) {
	for _, m := range AllModes() {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s' (choose from %s)", utils.ErrUnknownMode, name, strings.Join(ModeNames(), ", "))
}
