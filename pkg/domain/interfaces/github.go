package interfaces

import (
	"context"

	"github.com/zsol/python-dotslash/pkg/domain/model"
)

// ReleaseSource defines operations for reading upstream release metadata
type ReleaseSource interface {
	// LatestRelease fetches the latest published release
	LatestRelease(ctx context.Context) (*model.Release, error)

	// ReleaseByTag fetches a specific release by its tag name
	ReleaseByTag(ctx context.Context, tag string) (*model.Release, error)

	// FetchDigest fetches the sha256 sidecar digest for an asset URL
	FetchDigest(ctx context.Context, assetURL string) (string, error)
}
