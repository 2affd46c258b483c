package estlcam

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(state host.ProjectState) *PathResolver {
	loader := &fakeLoader{results: []loadResult{{state: state}}}
	return NewPathResolver(NewStateCache(loader, clock.NewFake(time.Now()), 5*time.Second))
}

func TestPathResolver_SingleRecentMatch(t *testing.T) {
	r := newResolver(host.ProjectState{
		RecentFiles: []string{`C:\cam\Plate.e12`, `C:\cam\Bracket.e12`},
	})

	path, ok := r.Resolve("bracket.E12")
	require.True(t, ok)
	assert.Equal(t, `C:\cam\Bracket.e12`, path)
}

func TestPathResolver_AmbiguousPrefersDefaultDir(t *testing.T) {
	r := newResolver(host.ProjectState{
		DefaultProjectDir: `D:\Projects\`,
		RecentFiles:       []string{`C:\other\Bracket.e12`, `D:\Projects\Bracket.e12`},
	})

	res := r.Explain("Bracket.e12")
	require.True(t, res.Found)
	assert.Equal(t, `D:\Projects\Bracket.e12`, res.Path)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, OutcomeAmbiguous, res.Steps[0].Outcome)
	assert.Len(t, res.Steps[0].Candidates, 2)
}

func TestPathResolver_AmbiguousPrefersNewestWrite(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a", "Bracket.e12")
	newer := filepath.Join(dir, "b", "Bracket.e12")
	for _, p := range []string{older, newer} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	r := newResolver(host.ProjectState{RecentFiles: []string{older, newer}})

	path, ok := r.Resolve("Bracket.e12")
	require.True(t, ok)
	assert.Equal(t, newer, path)
}

func TestPathResolver_FallsBackToDefaultDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bracket.e12"), []byte("x"), 0644))

	r := newResolver(host.ProjectState{
		DefaultProjectDir: dir,
		RecentFiles:       []string{`C:\cam\Plate.e12`},
	})

	res := r.Explain("Bracket.e12")
	require.True(t, res.Found)
	assert.Equal(t, filepath.Join(dir, "Bracket.e12"), res.Path)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, OutcomeNoMatch, res.Steps[0].Outcome)
	assert.Equal(t, OutcomeMatch, res.Steps[1].Outcome)
}

func TestPathResolver_NotFound(t *testing.T) {
	r := newResolver(host.ProjectState{DefaultProjectDir: t.TempDir()})

	_, ok := r.Resolve("Bracket.e12")
	assert.False(t, ok, "default dir candidate that does not exist is not a match")

	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}

func TestPathResolver_NoPartialMatch(t *testing.T) {
	r := newResolver(host.ProjectState{RecentFiles: []string{`C:\cam\Bracket_v2.e12`}})

	_, ok := r.Resolve("Bracket.e12")
	assert.False(t, ok)
}
