package config

import "github.com/urfave/cli/v3"

// Generate holds descriptor generation configuration
type Generate struct {
	Versions     []string
	FreeThreaded bool
	Tag          string
	Concurrency  int
}

// Flags returns CLI flags for generation configuration
func (c *Generate) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "cpython-version",
			Usage:       "CPython version to generate a descriptor for (repeatable)",
			Value:       []string{"3.13"},
			Destination: &c.Versions,
			Sources:     cli.EnvVars("PYDOTSLASH_CPYTHON_VERSION"),
		},
		&cli.BoolFlag{
			Name:        "free-threaded",
			Usage:       "Look for free-threaded builds",
			Value:       false,
			Destination: &c.FreeThreaded,
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Pin a specific upstream release tag instead of latest",
			Destination: &c.Tag,
			Sources:     cli.EnvVars("PYDOTSLASH_TAG"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Parallel digest downloads",
			Value:       4,
			Destination: &c.Concurrency,
		},
	}
}
