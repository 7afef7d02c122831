package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaledit/vintage/pkg/host"
	"github.com/modaledit/vintage/pkg/session"
)

type fakeHost struct {
	build    int
	packages string
}

func (f *fakeHost) BuildVersion() int { return f.build }

func (f *fakeHost) PackagesPath() (string, error) { return f.packages, nil }

func TestAppendAndGet(t *testing.T) {
	s := NewStore(zerolog.Nop())

	idx0 := s.Append(":w")
	idx1 := s.Append(":q")

	assert.Equal(t, 0, idx0)
	assert.Equal(t, 1, idx1)
	assert.Equal(t, 2, s.Len())

	v, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, ":w", v)

	_, ok = s.Get(5)
	assert.False(t, ok)
}

func TestReplaceAllResumesNumbering(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Append("stale")

	s.ReplaceAll(map[int]any{0: ":w", 4: ":q"})

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(1)
	assert.False(t, ok, "stale entries must be cleared")

	idx := s.Append(":x")
	assert.Equal(t, 5, idx)
}

func TestReplaceAllEmpty(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Append(":w")

	s.ReplaceAll(nil)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Append(":q"))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Append(":w")

	snap := s.Snapshot()
	snap[0] = "mutated"

	v, _ := s.Get(0)
	assert.Equal(t, ":w", v)
}

func TestSyncToPersistsThroughSession(t *testing.T) {
	dir := t.TempDir()
	gate, err := host.NewGate(&fakeHost{build: 4080, packages: filepath.Join(dir, "Packages")})
	require.NoError(t, err)

	s := NewStore(zerolog.Nop())
	s.Append(":w")
	s.Append(":q")

	m, err := session.New(session.Config{Gate: gate, History: s})
	require.NoError(t, err)
	defer m.Close()

	// Eager capability: SyncTo writes the record through immediately.
	require.NoError(t, s.SyncTo(m))

	data, err := os.ReadFile(filepath.Join(dir, "Local", session.RecordFileName))
	require.NoError(t, err)

	record, err := session.Decode(data)
	require.NoError(t, err)

	hist := record[session.KeyHistory].(map[any]any)
	assert.Equal(t, ":w", hist[0])
	assert.Equal(t, ":q", hist[1])
}

func TestLoadRepopulatesStore(t *testing.T) {
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "Local", session.RecordFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(recordPath), 0755))
	require.NoError(t, os.WriteFile(recordPath, []byte(`{"history": {"0": ":w", "3": ":q"}}`), 0644))

	gate, err := host.NewGate(&fakeHost{build: 4081, packages: filepath.Join(dir, "Packages")})
	require.NoError(t, err)

	s := NewStore(zerolog.Nop())
	m, err := session.New(session.Config{Gate: gate, History: s})
	require.NoError(t, err)
	defer m.Close()

	m.Load()

	assert.Equal(t, 2, s.Len())
	v, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, ":q", v)
	assert.Equal(t, 4, s.Append(":new"))
}
