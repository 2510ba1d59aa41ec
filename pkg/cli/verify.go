package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zsol/python-dotslash/pkg/cli/config"
	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/usecase"
)

func cmdVerify() *cli.Command {
	var verifyCfg config.Verify

	return &cli.Command{
		Name:      "verify",
		Usage:     "Verify previously generated descriptor files",
		ArgsUsage: "<file-or-dir> [...]",
		Flags:     verifyCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("at least one descriptor file or directory is required")
			}

			verifyUC := usecase.NewVerify()
			result, err := verifyUC.Verify(ctx, &model.VerifyRequest{
				Paths:       paths,
				RunDotslash: verifyCfg.Run,
				DotslashBin: verifyCfg.DotslashBin,
			})
			if err != nil {
				return goerr.Wrap(err, "verification failed")
			}

			printVerifyResult(result)

			if failures := result.Failures(); failures > 0 {
				return goerr.New("descriptor verification failed",
					goerr.V("failures", failures),
					goerr.V("total", len(result.Checks)),
				)
			}
			return nil
		},
	}
}

func printVerifyResult(result *model.VerifyResult) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	for _, check := range result.Checks {
		if check.Err != nil {
			fail.Printf("FAIL %s: %v\n", check.Path, check.Err)
		} else {
			pass.Printf("OK   %s (%s)\n", check.Path, check.Name)
		}
	}

	failures := result.Failures()
	if failures > 0 {
		fail.Printf("%d of %d descriptors failed\n", failures, len(result.Checks))
	} else {
		fmt.Printf("all %d descriptors passed\n", len(result.Checks))
	}
}
