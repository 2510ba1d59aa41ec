package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zsol/python-dotslash/pkg/domain/interfaces"
	"github.com/zsol/python-dotslash/pkg/domain/types"
	githubinfra "github.com/zsol/python-dotslash/pkg/infra/github"
)

// GitHub holds GitHub API access configuration
type GitHub struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKeyFile string
	Owner          string
	Repo           string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID for App authentication",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to the GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Owner of the release repository",
			Value:       types.DefaultOwner,
			Destination: &c.Owner,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Name of the release repository",
			Value:       types.DefaultRepo,
			Destination: &c.Repo,
			Sources:     cli.EnvVars("PYDOTSLASH_GITHUB_REPO"),
		},
	}
}

// Build creates a release source from the configuration. App credentials
// take precedence over a token; with neither, the client is anonymous.
func (c *GitHub) Build() (interfaces.ReleaseSource, error) {
	opts := []githubinfra.Option{
		githubinfra.WithRepository(c.Owner, c.Repo),
	}

	if c.AppID != 0 || c.InstallationID != 0 || c.PrivateKeyFile != "" {
		if c.AppID == 0 || c.InstallationID == 0 || c.PrivateKeyFile == "" {
			return nil, goerr.New("GitHub App auth requires app ID, installation ID, and private key file")
		}
		privateKey, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key",
				goerr.V("path", c.PrivateKeyFile))
		}
		return githubinfra.NewAppClient(c.AppID, c.InstallationID, privateKey, opts...)
	}

	if c.Token != "" {
		return githubinfra.NewTokenClient(c.Token, opts...)
	}

	return githubinfra.NewClient(opts...)
}
