package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zsol/python-dotslash/pkg/cli/config"
	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/usecase"
)

func cmdGenerate() *cli.Command {
	var (
		githubCfg config.GitHub
		outputCfg config.Output
		matrixCfg config.Matrix
		genCfg    config.Generate
	)

	flags := append(githubCfg.Flags(), outputCfg.Flags()...)
	flags = append(flags, matrixCfg.Flags()...)
	flags = append(flags, genCfg.Flags()...)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate dotslash descriptor files from upstream releases",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if outputCfg.Stdout && len(genCfg.Versions) != 1 {
				return goerr.New("stdout mode supports exactly one version",
					goerr.V("versions", genCfg.Versions))
			}

			matrix, err := matrixCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load platform matrix")
			}

			source, err := githubCfg.Build()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			logger.Info("Generating descriptors",
				slog.Any("versions", genCfg.Versions),
				slog.Bool("free_threaded", genCfg.FreeThreaded),
				slog.String("tag", genCfg.Tag),
			)

			req := &model.GenerateRequest{
				Versions:     genCfg.Versions,
				FreeThreaded: genCfg.FreeThreaded,
				Tag:          genCfg.Tag,
				Matrix:       matrix,
				Concurrency:  genCfg.Concurrency,
			}
			if !outputCfg.Stdout {
				req.OutputDir = outputCfg.Dir
			}

			generateUC := usecase.NewGenerate(source)
			result, err := generateUC.Generate(ctx, req)
			if err != nil {
				return goerr.Wrap(err, "generation failed")
			}

			if outputCfg.Stdout {
				data, err := result.Descriptors[0].Render()
				if err != nil {
					return err
				}
				if _, err := os.Stdout.Write(data); err != nil {
					return goerr.Wrap(err, "failed to write descriptor to stdout")
				}
				return nil
			}

			logger.Info("Generation complete",
				slog.String("release_tag", result.ReleaseTag),
				slog.Int("descriptor_count", len(result.Descriptors)),
				slog.Any("files", result.Files),
			)
			return nil
		},
	}
}
