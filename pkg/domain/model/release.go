package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// AssetStateUploaded is the GitHub asset state of a fully uploaded file.
// Assets in any other state are still being processed upstream and must not
// be referenced by a descriptor.
const AssetStateUploaded = "uploaded"

// Asset represents a single downloadable file attached to a release
type Asset struct {
	Name               string
	BrowserDownloadURL string
	State              string
	Size               int64
}

// Release represents the subset of a GitHub release needed for descriptor
// generation
type Release struct {
	Name       string
	TagName    string
	Draft      bool
	Prerelease bool
	Assets     []Asset
}

// FindAsset returns the unique release asset matching the given CPython
// version and target. Sidecar digest files (*.sha256) are never candidates.
// Zero or multiple matches are errors so that an upstream naming change
// fails generation instead of silently picking the wrong build.
func (r *Release) FindAsset(version string, target Target) (Asset, error) {
	prefix := "cpython-" + version + "."

	var candidates []Asset
	for _, asset := range r.Assets {
		if !strings.HasPrefix(asset.Name, prefix) {
			continue
		}
		if strings.HasSuffix(asset.Name, ".sha256") {
			continue
		}
		if strings.Contains(asset.Name, target.Marker) && strings.Contains(asset.Name, target.Flavor) {
			candidates = append(candidates, asset)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return Asset{}, goerr.New("no release asset matches target",
			goerr.V("version", version),
			goerr.V("platform", target.Name),
			goerr.V("marker", target.Marker),
			goerr.V("flavor", target.Flavor),
			goerr.V("release", r.Name),
		)
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.Name)
		}
		return Asset{}, goerr.New("multiple release assets match target",
			goerr.V("version", version),
			goerr.V("platform", target.Name),
			goerr.V("candidates", names),
		)
	}
}
