package host

// Host is the capability surface an editor host exposes to the session
// subsystem. Implementations wrap the host's extension API.
type Host interface {
	// BuildVersion returns the host's integer build number.
	BuildVersion() int

	// PackagesPath returns the host's packages (installation/config)
	// directory. On builds >= DeferredSaveMinBuild the underlying API stops
	// working once the host begins shutting down.
	PackagesPath() (string, error)
}
