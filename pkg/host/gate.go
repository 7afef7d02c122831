package host

import "fmt"

// DeferredSaveMinBuild is the first host build that delivers a shutdown
// notification. The same build withdraws the packages path API during
// teardown, so the path must be captured up front.
const DeferredSaveMinBuild = 4081

// Gate resolves the host's persistence capability once, at construction, and
// answers path queries accordingly for the rest of the process lifetime.
type Gate struct {
	host       Host
	deferred   bool
	cachedPath string
}

// NewGate inspects the host build and, under the deferred-save capability,
// captures the packages path immediately.
func NewGate(h Host) (*Gate, error) {
	g := &Gate{
		host:     h,
		deferred: h.BuildVersion() >= DeferredSaveMinBuild,
	}

	if g.deferred {
		path, err := h.PackagesPath()
		if err != nil {
			return nil, fmt.Errorf("failed to capture packages path: %w", err)
		}
		g.cachedPath = path
	}

	return g, nil
}

// DeferredSave reports whether the host delivers a shutdown notification,
// allowing saves to be deferred until exit instead of written through on
// every persistent mutation.
func (g *Gate) DeferredSave() bool {
	return g.deferred
}

// PackagesPath returns the packages directory: the construction-time capture
// under the deferred capability, a live host query otherwise.
func (g *Gate) PackagesPath() (string, error) {
	if g.deferred {
		return g.cachedPath, nil
	}
	return g.host.PackagesPath()
}
