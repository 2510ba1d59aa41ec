package config

import "github.com/urfave/cli/v3"

// Verify holds descriptor verification configuration
type Verify struct {
	Run         bool
	DotslashBin string
}

// Flags returns CLI flags for verification configuration
func (c *Verify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "run",
			Usage:       "Execute each descriptor through dotslash",
			Value:       false,
			Destination: &c.Run,
		},
		&cli.StringFlag{
			Name:        "dotslash-bin",
			Usage:       "Path to the dotslash binary (defaults to PATH lookup)",
			Destination: &c.DotslashBin,
			Sources:     cli.EnvVars("PYDOTSLASH_DOTSLASH_BIN"),
		},
	}
}
