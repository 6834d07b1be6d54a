package versions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostsets/internal/source"
)

type versionSource struct {
	source.Unimplemented
	version string
}

func (s versionSource) Version() (string, error) {
	return s.version, nil
}

type mapStore map[string]string

func (m mapStore) Get(name string) (string, error) {
	return m[name], nil
}

type failingStore struct{}

func (failingStore) Get(string) (string, error) {
	return "", errors.New("locked")
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name           string
		game           string
		src            string
		local          string
		sourceOutdated bool
		localOutdated  bool
	}{
		{name: "up to date", game: "10.14", src: "10.14", local: "10.14"},
		{name: "source behind game", game: "10.14", src: "10.13", local: "10.13", sourceOutdated: true},
		{name: "local behind source", game: "10.14", src: "10.14", local: "10.13", localOutdated: true},
		{name: "both outdated", game: "10.15", src: "10.14", local: "10.13", sourceOutdated: true, localOutdated: true},
		{name: "date scheme source", game: "10.14", src: "2020.10.20", local: "2020.10.19"},
		{name: "nothing imported", game: "10.14", src: "10.14", local: ""},
		{name: "source ahead of game", game: "10.14", src: "10.15", local: "10.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mapStore{"ugg": tt.local}
			report, err := Check("ugg", versionSource{version: tt.src}, tt.game, store)
			require.NoError(t, err)

			assert.Equal(t, tt.src, report.SourceVersion)
			assert.Equal(t, tt.local, report.LocalVersion)
			assert.Equal(t, tt.sourceOutdated, report.SourceOutdated)
			assert.Equal(t, tt.localOutdated, report.LocalOutdated)
		})
	}
}

func TestReportString(t *testing.T) {
	r := Report{
		Name:           "ugg",
		SourceVersion:  "10.13",
		LocalVersion:   "10.12",
		SourceOutdated: true,
		LocalOutdated:  true,
	}
	assert.Equal(t,
		"Ugg version: 10.13 (Not updated to new patch yet), imported version: 10.12 (outdated!)",
		r.String())

	r = Report{Name: "stats", SourceVersion: "2020.10.20"}
	assert.Equal(t, "Stats version: 2020.10.20, imported version: none", r.String())
}

func TestCheck_StoreError(t *testing.T) {
	_, err := Check("ugg", versionSource{version: "10.14"}, "10.14", failingStore{})
	assert.Error(t, err)
}

func TestCheck_UnimplementedVersion(t *testing.T) {
	_, err := Check("ugg", source.Unimplemented{}, "10.14", mapStore{})
	assert.ErrorIs(t, err, source.ErrNotImplemented)
}
