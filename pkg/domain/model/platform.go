package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Target describes one row of the platform matrix: which release asset to
// pick for a dotslash platform, and where the interpreter lives inside the
// archive.
type Target struct {
	// Name is the dotslash platform key, e.g. "linux-aarch64"
	Name string `toml:"name"`
	// FreeThreaded selects the no-GIL build flavor of this platform
	FreeThreaded bool `toml:"free_threaded"`
	// Marker is the target triple substring in the asset file name,
	// e.g. "aarch64-unknown-linux-gnu"
	Marker string `toml:"marker"`
	// Flavor is the build flavor substring, e.g. "install_only_stripped"
	Flavor string `toml:"flavor"`
	// Path is the interpreter path inside the extracted archive
	Path string `toml:"path"`
}

// Matrix is the full set of supported targets
type Matrix []Target

// Enabled returns the targets for the requested build mode
func (m Matrix) Enabled(freeThreaded bool) []Target {
	var targets []Target
	for _, t := range m {
		if t.FreeThreaded == freeThreaded {
			targets = append(targets, t)
		}
	}
	return targets
}

// Validate checks that every target is complete and that no
// (name, free_threaded) pair appears twice
func (m Matrix) Validate() error {
	type key struct {
		name         string
		freeThreaded bool
	}
	seen := map[key]struct{}{}

	for _, t := range m {
		if t.Name == "" || t.Marker == "" || t.Flavor == "" || t.Path == "" {
			return goerr.New("incomplete platform entry",
				goerr.V("name", t.Name),
				goerr.V("marker", t.Marker),
				goerr.V("flavor", t.Flavor),
				goerr.V("path", t.Path),
			)
		}

		k := key{name: t.Name, freeThreaded: t.FreeThreaded}
		if _, ok := seen[k]; ok {
			return goerr.New("duplicate platform entry",
				goerr.V("name", t.Name),
				goerr.V("free_threaded", t.FreeThreaded),
			)
		}
		seen[k] = struct{}{}
	}

	return nil
}
