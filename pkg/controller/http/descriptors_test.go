package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/zsol/python-dotslash/pkg/controller/http"
	"github.com/zsol/python-dotslash/pkg/domain/model"
)

func setupDescriptorDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	descriptor := &model.Descriptor{
		Name: "cpython-3.13",
		Platforms: map[string]model.Artifact{
			"linux-aarch64": {
				Arg0:   "underlying-executable",
				Digest: strings.Repeat("ef", 32),
				Format: "tar.gz",
				Hash:   "sha256",
				Path:   "python/bin/python",
				Providers: []model.Provider{
					{URL: "https://example.com/cpython.tar.gz"},
				},
				Size: 100,
			},
			"macos-aarch64": {
				Arg0:   "underlying-executable",
				Digest: strings.Repeat("ef", 32),
				Format: "tar.gz",
				Hash:   "sha256",
				Path:   "python/bin/python",
				Providers: []model.Provider{
					{URL: "https://example.com/cpython-macos.tar.gz"},
				},
				Size: 200,
			},
		},
	}

	data, err := descriptor.Render()
	gt.NoError(t, err)
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "cpython-3.13"), data, 0755))

	// Non-descriptor files are skipped by the index
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs"), 0644))

	return dir
}

func TestDescriptorHandler_Index(t *testing.T) {
	dir := setupDescriptorDir(t)

	server, err := controller.NewServer(context.Background(), dir)
	gt.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodGet, "/descriptors", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(nethttp.StatusOK)

	var index []struct {
		Name      string   `json:"name"`
		File      string   `json:"file"`
		Platforms []string `json:"platforms"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	gt.Value(t, len(index)).Equal(1)
	gt.Value(t, index[0].Name).Equal("cpython-3.13")
	gt.Value(t, index[0].File).Equal("cpython-3.13")
	gt.Value(t, index[0].Platforms).Equal([]string{"linux-aarch64", "macos-aarch64"})
}

func TestDescriptorHandler_Get(t *testing.T) {
	dir := setupDescriptorDir(t)

	server, err := controller.NewServer(context.Background(), dir)
	gt.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodGet, "/descriptors/cpython-3.13", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(nethttp.StatusOK)
	gt.String(t, rec.Body.String()).Contains(model.Shebang)

	parsed, err := model.ParseDescriptor(rec.Body.Bytes())
	gt.NoError(t, err)
	gt.Value(t, parsed.Name).Equal("cpython-3.13")
}

func TestDescriptorHandler_Get_NotFound(t *testing.T) {
	server, err := controller.NewServer(context.Background(), t.TempDir())
	gt.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodGet, "/descriptors/cpython-9.99", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(nethttp.StatusNotFound)
}

func TestDescriptorHandler_Get_PathTraversal(t *testing.T) {
	server, err := controller.NewServer(context.Background(), t.TempDir())
	gt.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodGet, "/descriptors/..", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(nethttp.StatusBadRequest)
}
