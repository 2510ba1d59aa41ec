package usecase

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/zsol/python-dotslash/pkg/domain/interfaces"
	"github.com/zsol/python-dotslash/pkg/domain/model"
)

// versionProbe prints the interpreter version when run through dotslash
const versionProbe = "import sys; print(sys.version)"

type verifyUseCase struct{}

// NewVerify creates a new instance of VerifyUseCase
func NewVerify() interfaces.VerifyUseCase {
	return &verifyUseCase{}
}

// Verify checks every descriptor file under the requested paths
func (uc *verifyUseCase) Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerifyResult, error) {
	logger := ctxlog.From(ctx)

	files, err := expandPaths(req.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, goerr.New("no descriptor files to verify", goerr.V("paths", req.Paths))
	}

	dotslashBin := req.DotslashBin
	if req.RunDotslash && dotslashBin == "" {
		dotslashBin, err = exec.LookPath("dotslash")
		if err != nil {
			return nil, goerr.Wrap(err, "dotslash binary not found in PATH")
		}
	}

	result := &model.VerifyResult{}
	for _, path := range files {
		name, err := uc.checkFile(ctx, path, req.RunDotslash, dotslashBin)
		if err != nil {
			logger.Error("Descriptor verification failed",
				"path", path,
				"error", err,
			)
		} else {
			logger.Info("Descriptor verified", "path", path, "name", name)
		}
		result.Checks = append(result.Checks, model.VerifyCheck{
			Path: path,
			Name: name,
			Err:  err,
		})
	}

	return result, nil
}

// checkFile parses and validates one descriptor file, and optionally runs
// it through dotslash to confirm it launches the advertised interpreter
func (uc *verifyUseCase) checkFile(ctx context.Context, path string, run bool, dotslashBin string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read descriptor file")
	}

	descriptor, err := model.ParseDescriptor(data)
	if err != nil {
		return "", err
	}
	if err := descriptor.Validate(); err != nil {
		return descriptor.Name, err
	}

	if run {
		if err := uc.runDotslash(ctx, dotslashBin, path, descriptor); err != nil {
			return descriptor.Name, err
		}
	}

	return descriptor.Name, nil
}

// runDotslash executes the descriptor file through dotslash and checks the
// reported sys.version against the descriptor name
func (uc *verifyUseCase) runDotslash(ctx context.Context, dotslashBin, path string, descriptor *model.Descriptor) error {
	version, freeThreaded, err := descriptor.VersionInfo()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, dotslashBin, path, "-c", versionProbe)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		return goerr.Wrap(err, "dotslash execution failed",
			goerr.V("path", path),
			goerr.V("stderr", stderr),
		)
	}

	reported := string(output)
	if !strings.HasPrefix(reported, version) {
		return goerr.New("interpreter version mismatch",
			goerr.V("expected_prefix", version),
			goerr.V("reported", reported),
		)
	}

	isFreeThreading := strings.Contains(reported, "free-threading build")
	if freeThreaded != isFreeThreading {
		return goerr.New("free-threading mode mismatch",
			goerr.V("expected", freeThreaded),
			goerr.V("reported", reported),
		)
	}

	return nil
}

// expandPaths resolves directories into their immediate files
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat path", goerr.V("path", path))
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read directory", goerr.V("path", path))
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}
