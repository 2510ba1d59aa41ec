package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/zsol/python-dotslash/pkg/domain/model"
	"github.com/zsol/python-dotslash/pkg/usecase"
)

func writeDescriptorFile(t *testing.T, dir, name string) string {
	t.Helper()

	descriptor := &model.Descriptor{
		Name: name,
		Platforms: map[string]model.Artifact{
			"linux-aarch64": {
				Arg0:   "underlying-executable",
				Digest: strings.Repeat("cd", 32),
				Format: "tar.gz",
				Hash:   "sha256",
				Path:   "python/bin/python",
				Providers: []model.Provider{
					{URL: "https://example.com/" + name + ".tar.gz"},
				},
				Size: 4096,
			},
		},
	}

	data, err := descriptor.Render()
	gt.NoError(t, err)

	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, data, 0755))
	return path
}

func TestVerifyUseCase_Verify_Success(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := writeDescriptorFile(t, dir, "cpython-3.13")

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{Paths: []string{path}})

	gt.NoError(t, err)
	gt.Value(t, len(result.Checks)).Equal(1)
	gt.Value(t, result.Failures()).Equal(0)
	gt.Value(t, result.Checks[0].Name).Equal("cpython-3.13")
	gt.NoError(t, result.Checks[0].Err)
}

func TestVerifyUseCase_Verify_Directory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writeDescriptorFile(t, dir, "cpython-3.13")
	writeDescriptorFile(t, dir, "cpython-3.13t")
	writeDescriptorFile(t, dir, "cpython-3.12")

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{Paths: []string{dir}})

	gt.NoError(t, err)
	gt.Value(t, len(result.Checks)).Equal(3)
	gt.Value(t, result.Failures()).Equal(0)
}

func TestVerifyUseCase_Verify_BrokenFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	good := writeDescriptorFile(t, dir, "cpython-3.13")

	noShebang := filepath.Join(dir, "no-shebang")
	gt.NoError(t, os.WriteFile(noShebang, []byte("{\"name\": \"cpython-3.13\"}\n"), 0755))

	badDigest := filepath.Join(dir, "cpython-3.12")
	data, err := os.ReadFile(good)
	gt.NoError(t, err)
	corrupted := strings.Replace(string(data), strings.Repeat("cd", 32), "bogus", 1)
	gt.NoError(t, os.WriteFile(badDigest, []byte(corrupted), 0755))

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{
		Paths: []string{good, noShebang, badDigest},
	})

	gt.NoError(t, err)
	gt.Value(t, len(result.Checks)).Equal(3)
	gt.Value(t, result.Failures()).Equal(2)
	gt.NoError(t, result.Checks[0].Err)
	gt.Error(t, result.Checks[1].Err)
	gt.Error(t, result.Checks[2].Err)
}

func TestVerifyUseCase_Verify_NoFiles(t *testing.T) {
	ctx := context.Background()

	uc := usecase.NewVerify()

	t.Run("empty directory", func(t *testing.T) {
		result, err := uc.Verify(ctx, &model.VerifyRequest{Paths: []string{t.TempDir()}})
		gt.Error(t, err)
		gt.Value(t, result).Nil()
	})

	t.Run("missing path", func(t *testing.T) {
		result, err := uc.Verify(ctx, &model.VerifyRequest{Paths: []string{"/nonexistent/path"}})
		gt.Error(t, err)
		gt.Value(t, result).Nil()
	})
}

func TestVerifyUseCase_Verify_RunDotslash(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := writeDescriptorFile(t, dir, "cpython-3.13")

	// Fake dotslash binary reporting a matching interpreter version
	fakeBin := filepath.Join(dir, "dotslash")
	script := "#!/bin/sh\necho '3.13.1 (main, Jan 15 2026) [GCC 13.2.0]'\n"
	gt.NoError(t, os.WriteFile(fakeBin, []byte(script), 0755))

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{
		Paths:       []string{path},
		RunDotslash: true,
		DotslashBin: fakeBin,
	})

	gt.NoError(t, err)
	gt.Value(t, result.Failures()).Equal(0)
}

func TestVerifyUseCase_Verify_RunDotslash_VersionMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := writeDescriptorFile(t, dir, "cpython-3.13")

	fakeBin := filepath.Join(dir, "dotslash")
	script := "#!/bin/sh\necho '3.12.9 (main, Jan 15 2026) [GCC 13.2.0]'\n"
	gt.NoError(t, os.WriteFile(fakeBin, []byte(script), 0755))

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{
		Paths:       []string{path},
		RunDotslash: true,
		DotslashBin: fakeBin,
	})

	gt.NoError(t, err)
	gt.Value(t, result.Failures()).Equal(1)
	gt.String(t, result.Checks[0].Err.Error()).Contains("version mismatch")
}

func TestVerifyUseCase_Verify_RunDotslash_FreeThreadedMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Descriptor claims free-threaded but the interpreter is a GIL build
	path := writeDescriptorFile(t, dir, "cpython-3.13t")

	fakeBin := filepath.Join(dir, "dotslash")
	script := "#!/bin/sh\necho '3.13.1 (main, Jan 15 2026) [GCC 13.2.0]'\n"
	gt.NoError(t, os.WriteFile(fakeBin, []byte(script), 0755))

	uc := usecase.NewVerify()
	result, err := uc.Verify(ctx, &model.VerifyRequest{
		Paths:       []string{path},
		RunDotslash: true,
		DotslashBin: fakeBin,
	})

	gt.NoError(t, err)
	gt.Value(t, result.Failures()).Equal(1)
	gt.String(t, result.Checks[0].Err.Error()).Contains("free-threading")
}
