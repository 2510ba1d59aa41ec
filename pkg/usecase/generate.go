package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/zsol/python-dotslash/pkg/domain/interfaces"
	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/utils/parallel"
)

type generateUseCase struct {
	source interfaces.ReleaseSource
}

// NewGenerate creates a new instance of GenerateUseCase
func NewGenerate(source interfaces.ReleaseSource) interfaces.GenerateUseCase {
	return &generateUseCase{
		source: source,
	}
}

// Generate resolves the upstream release, builds one descriptor per
// requested version, and writes them out when an output directory is set
func (uc *generateUseCase) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResult, error) {
	logger := ctxlog.From(ctx)

	if len(req.Versions) == 0 {
		return nil, goerr.New("no CPython versions requested")
	}
	if err := req.Matrix.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid platform matrix")
	}

	targets := req.Matrix.Enabled(req.FreeThreaded)
	if len(targets) == 0 {
		return nil, goerr.New("matrix has no targets for requested mode",
			goerr.V("free_threaded", req.FreeThreaded))
	}

	release, err := uc.resolveRelease(ctx, req.Tag)
	if err != nil {
		return nil, err
	}
	if release.Draft {
		return nil, goerr.New("refusing to generate from a draft release",
			goerr.V("release", release.Name),
			goerr.V("tag", release.TagName),
		)
	}

	logger.Info("Resolved upstream release",
		"release", release.Name,
		"tag", release.TagName,
		"prerelease", release.Prerelease,
		"asset_count", len(release.Assets),
	)

	result := &model.GenerateResult{
		ReleaseTag: release.TagName,
	}

	for _, version := range req.Versions {
		descriptor, err := uc.buildDescriptor(ctx, release, version, targets, req)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build descriptor",
				goerr.V("version", version))
		}
		result.Descriptors = append(result.Descriptors, descriptor)
	}

	if req.OutputDir != "" {
		files, err := uc.writeDescriptors(ctx, req.OutputDir, result.Descriptors)
		if err != nil {
			return nil, err
		}
		result.Files = files
	}

	return result, nil
}

func (uc *generateUseCase) resolveRelease(ctx context.Context, tag string) (*model.Release, error) {
	if tag == "" {
		return uc.source.LatestRelease(ctx)
	}
	return uc.source.ReleaseByTag(ctx, tag)
}

// buildDescriptor selects one asset per target and fetches their digests
// concurrently
func (uc *generateUseCase) buildDescriptor(ctx context.Context, release *model.Release, version string, targets []model.Target, req *model.GenerateRequest) (*model.Descriptor, error) {
	logger := ctxlog.From(ctx)

	type job struct {
		target model.Target
		asset  model.Asset
		format string
	}

	jobs := make([]job, 0, len(targets))
	for _, target := range targets {
		asset, err := release.FindAsset(version, target)
		if err != nil {
			return nil, err
		}
		if asset.State != model.AssetStateUploaded {
			return nil, goerr.New("release asset is not fully uploaded",
				goerr.V("asset", asset.Name),
				goerr.V("state", asset.State),
			)
		}

		format, err := model.ArchiveFormat(asset.BrowserDownloadURL)
		if err != nil {
			return nil, goerr.Wrap(err, "asset archive is unusable",
				goerr.V("platform", target.Name))
		}

		jobs = append(jobs, job{target: target, asset: asset, format: format})
	}

	artifacts, err := parallel.Map(ctx, req.Concurrency, jobs, func(ctx context.Context, j job) (model.Artifact, error) {
		digest, err := uc.source.FetchDigest(ctx, j.asset.BrowserDownloadURL)
		if err != nil {
			return model.Artifact{}, goerr.Wrap(err, "failed to fetch asset digest",
				goerr.V("asset", j.asset.Name))
		}

		logger.Debug("Fetched asset digest",
			"platform", j.target.Name,
			"asset", j.asset.Name,
		)

		return model.Artifact{
			Arg0:   "underlying-executable",
			Digest: digest,
			Format: j.format,
			Hash:   "sha256",
			Path:   j.target.Path,
			Providers: []model.Provider{
				{URL: j.asset.BrowserDownloadURL},
			},
			Size: j.asset.Size,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	descriptor := &model.Descriptor{
		Name:      model.DescriptorName(version, req.FreeThreaded),
		Platforms: make(map[string]model.Artifact, len(jobs)),
	}
	for i, j := range jobs {
		descriptor.Platforms[j.target.Name] = artifacts[i]
	}

	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Built descriptor",
		"name", descriptor.Name,
		"platform_count", len(descriptor.Platforms),
	)

	return descriptor, nil
}

// writeDescriptors writes each descriptor as an executable file named after
// the descriptor itself
func (uc *generateUseCase) writeDescriptors(ctx context.Context, dir string, descriptors []*model.Descriptor) ([]string, error) {
	logger := ctxlog.From(ctx)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	files := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		data, err := descriptor.Render()
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, descriptor.Name)
		if err := os.WriteFile(path, data, 0755); err != nil {
			return nil, goerr.Wrap(err, "failed to write descriptor file",
				goerr.V("path", path))
		}

		logger.Info("Wrote descriptor file",
			"path", path,
			"size_bytes", len(data),
		)
		files = append(files, path)
	}

	return files, nil
}
