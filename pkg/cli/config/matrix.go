package config

import (
	"github.com/urfave/cli/v3"
	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/infra/matrix"
)

// Matrix holds platform matrix configuration
type Matrix struct {
	File string
}

// Flags returns CLI flags for matrix configuration
func (c *Matrix) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "matrix",
			Usage:       "TOML file overriding the built-in platform matrix",
			Destination: &c.File,
			Sources:     cli.EnvVars("PYDOTSLASH_MATRIX"),
		},
	}
}

// Load returns the configured platform matrix
func (c *Matrix) Load() (model.Matrix, error) {
	if c.File != "" {
		return matrix.LoadFile(c.File)
	}
	return matrix.Default()
}
