package host

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	build     int
	path      string
	pathErr   error
	pathCalls int
}

func (f *fakeHost) BuildVersion() int { return f.build }

func (f *fakeHost) PackagesPath() (string, error) {
	f.pathCalls++
	if f.pathErr != nil {
		return "", f.pathErr
	}
	return f.path, nil
}

func TestNewGateCapability(t *testing.T) {
	tests := []struct {
		name     string
		build    int
		deferred bool
	}{
		{"old build", 4080, false},
		{"threshold build", 4081, true},
		{"newer build", 4200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, err := NewGate(&fakeHost{build: tt.build, path: "/opt/editor/Packages"})
			require.NoError(t, err)
			assert.Equal(t, tt.deferred, gate.DeferredSave())
		})
	}
}

func TestGateMemoizesPathUnderDeferredCapability(t *testing.T) {
	h := &fakeHost{build: 4081, path: "/opt/editor/Packages"}

	gate, err := NewGate(h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.pathCalls)

	// The host API going away later must not matter.
	h.pathErr = fmt.Errorf("API unavailable during shutdown")

	path, err := gate.PackagesPath()
	require.NoError(t, err)
	assert.Equal(t, "/opt/editor/Packages", path)
	assert.Equal(t, 1, h.pathCalls)
}

func TestGateQueriesLiveUnderEagerCapability(t *testing.T) {
	h := &fakeHost{build: 4080, path: "/opt/editor/Packages"}

	gate, err := NewGate(h)
	require.NoError(t, err)
	assert.Equal(t, 0, h.pathCalls)

	h.path = "/moved/Packages"
	path, err := gate.PackagesPath()
	require.NoError(t, err)
	assert.Equal(t, "/moved/Packages", path)

	_, err = gate.PackagesPath()
	require.NoError(t, err)
	assert.Equal(t, 2, h.pathCalls)
}

func TestNewGateSurfacesCaptureFailure(t *testing.T) {
	h := &fakeHost{build: 4100, pathErr: fmt.Errorf("no path")}

	_, err := NewGate(h)
	assert.Error(t, err)
}
