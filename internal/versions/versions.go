package versions

import (
	"fmt"
	"strconv"
	"strings"

	"ghostsets/internal/source"
)

const (
	sourceOutdatedFlag = " (Not updated to new patch yet)"
	localOutdatedFlag  = " (outdated!)"
)

// LocalStore reads the last imported version of a source
type LocalStore interface {
	Get(name string) (string, error)
}

// Report compares a source's version with the game and with the local import
type Report struct {
	Name           string
	GameVersion    string
	SourceVersion  string
	LocalVersion   string
	SourceOutdated bool // source has not caught up with the game patch
	LocalOutdated  bool // source published data newer than the local import
}

// String formats the report as a single status line
func (r Report) String() string {
	var sourceFlag, localFlag string
	if r.SourceOutdated {
		sourceFlag = sourceOutdatedFlag
	}
	if r.LocalOutdated {
		localFlag = localOutdatedFlag
	}

	local := r.LocalVersion
	if local == "" {
		local = "none"
	}

	return fmt.Sprintf("%s version: %s%s, imported version: %s%s",
		capitalize(r.Name), r.SourceVersion, sourceFlag, local, localFlag)
}

// Check compares the source version against the game version and the locally imported version.
// Versions that are not plain numbers are never flagged.
func Check(name string, src source.Source, gameVersion string, store LocalStore) (Report, error) {
	sourceVersion, err := src.Version()
	if err != nil {
		return Report{}, fmt.Errorf("failed to get %s version: %w", name, err)
	}

	localVersion, err := store.Get(name)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get imported %s version: %w", name, err)
	}

	return Report{
		Name:           name,
		GameVersion:    gameVersion,
		SourceVersion:  sourceVersion,
		LocalVersion:   localVersion,
		SourceOutdated: newer(gameVersion, sourceVersion),
		LocalOutdated:  newer(sourceVersion, localVersion),
	}, nil
}

// newer reports whether a is numerically greater than b.
// False when either side does not parse.
func newer(a, b string) bool {
	fa, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return false
	}
	fb, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return false
	}
	return fa > fb
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
