package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/zsol/python-dotslash/pkg/domain/interfaces"
	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/domain/types"
)

// config holds internal client configuration
type config struct {
	owner      string
	repo       string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*config)

// WithRepository overrides the upstream repository to read releases from
func WithRepository(owner, repo string) Option {
	return func(c *config) {
		c.owner = owner
		c.repo = repo
	}
}

// WithBaseURL overrides the GitHub API base URL, mainly for tests
func WithBaseURL(rawURL string) Option {
	return func(c *config) {
		c.baseURL = rawURL
	}
}

// WithHTTPClient overrides the HTTP client used for API and digest requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

type client struct {
	gh         *github.Client
	httpClient *http.Client
	owner      string
	repo       string
}

// NewClient creates an unauthenticated release source. Fine for occasional
// use; CI should authenticate to avoid API rate limits.
func NewClient(opts ...Option) (interfaces.ReleaseSource, error) {
	return newClient(nil, opts...)
}

// NewTokenClient creates a release source authenticated with a personal
// access token
func NewTokenClient(token string, opts ...Option) (interfaces.ReleaseSource, error) {
	return newClient(func(gh *github.Client) *github.Client {
		return gh.WithAuthToken(token)
	}, opts...)
}

// NewAppClient creates a release source authenticated as a GitHub App
// installation
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.ReleaseSource, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return newClient(nil, append(opts, WithHTTPClient(&http.Client{Transport: itr}))...)
}

func newClient(auth func(*github.Client) *github.Client, opts ...Option) (interfaces.ReleaseSource, error) {
	cfg := &config{
		owner: types.DefaultOwner,
		repo:  types.DefaultRepo,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	gh := github.NewClient(cfg.httpClient)
	if auth != nil {
		gh = auth(gh)
	}

	if cfg.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid API base URL", goerr.V("url", cfg.baseURL))
		}
		gh.BaseURL = base
	}

	return &client{
		gh:         gh,
		httpClient: cfg.httpClient,
		owner:      cfg.owner,
		repo:       cfg.repo,
	}, nil
}

// LatestRelease fetches the latest published release
func (c *client) LatestRelease(ctx context.Context) (*model.Release, error) {
	release, _, err := c.gh.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch latest release",
			goerr.V("owner", c.owner),
			goerr.V("repo", c.repo),
		)
	}
	return toRelease(release), nil
}

// ReleaseByTag fetches a specific release by its tag name
func (c *client) ReleaseByTag(ctx context.Context, tag string) (*model.Release, error) {
	release, _, err := c.gh.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch release by tag",
			goerr.V("owner", c.owner),
			goerr.V("repo", c.repo),
			goerr.V("tag", tag),
		)
	}
	return toRelease(release), nil
}

// FetchDigest fetches the sha256 sidecar published next to each release
// asset and returns its trimmed content
func (c *client) FetchDigest(ctx context.Context, assetURL string) (string, error) {
	digestURL := assetURL + ".sha256"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, digestURL, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create digest request", goerr.V("url", digestURL))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch digest", goerr.V("url", digestURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status fetching digest",
			goerr.V("url", digestURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	// Sidecar files hold a single hex digest
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read digest body", goerr.V("url", digestURL))
	}

	digest := strings.TrimSpace(string(body))
	if digest == "" {
		return "", goerr.New("digest sidecar is empty", goerr.V("url", digestURL))
	}
	return digest, nil
}

func toRelease(release *github.RepositoryRelease) *model.Release {
	assets := make([]model.Asset, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, model.Asset{
			Name:               asset.GetName(),
			BrowserDownloadURL: asset.GetBrowserDownloadURL(),
			State:              asset.GetState(),
			Size:               int64(asset.GetSize()),
		})
	}

	return &model.Release{
		Name:       release.GetName(),
		TagName:    release.GetTagName(),
		Draft:      release.GetDraft(),
		Prerelease: release.GetPrerelease(),
		Assets:     assets,
	}
}
