package config

import "github.com/urfave/cli/v3"

// Output holds descriptor output configuration
type Output struct {
	Dir    string
	Stdout bool
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory to write descriptor files to",
			Value:       "descriptors",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("PYDOTSLASH_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "stdout",
			Usage:       "Write the descriptor to stdout instead of a file",
			Value:       false,
			Destination: &c.Stdout,
		},
	}
}
