package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/zsol/python-dotslash/pkg/domain/model"
)

// DescriptorHandler serves generated descriptor files from a directory
type DescriptorHandler struct {
	dir string
}

// NewDescriptorHandler creates a new DescriptorHandler
func NewDescriptorHandler(dir string) *DescriptorHandler {
	return &DescriptorHandler{
		dir: dir,
	}
}

// descriptorEntry is one row of the index response
type descriptorEntry struct {
	Name      string   `json:"name"`
	File      string   `json:"file"`
	Platforms []string `json:"platforms"`
}

// Index lists the descriptor files in the directory. Files that don't parse
// as descriptors are skipped with a warning.
func (h *DescriptorHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		logger.Error("Failed to read descriptor directory", "dir", h.dir, "error", err)
		writeError(w, goerr.Wrap(err, "failed to read descriptor directory"), http.StatusInternalServerError)
		return
	}

	index := []descriptorEntry{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(h.dir, entry.Name()))
		if err != nil {
			logger.Warn("Failed to read descriptor file", "file", entry.Name(), "error", err)
			continue
		}

		descriptor, err := model.ParseDescriptor(data)
		if err != nil {
			logger.Warn("Skipping non-descriptor file", "file", entry.Name(), "error", err)
			continue
		}

		platforms := make([]string, 0, len(descriptor.Platforms))
		for platform := range descriptor.Platforms {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)

		index = append(index, descriptorEntry{
			Name:      descriptor.Name,
			File:      entry.Name(),
			Platforms: platforms,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(index); err != nil {
		logger.Error("Failed to encode index response", "error", err)
	}
}

// Get serves a single descriptor file verbatim
func (h *DescriptorHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	name := chi.URLParam(r, "name")
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		writeError(w, goerr.New("invalid descriptor name"), http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(h.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, goerr.New("descriptor not found"), http.StatusNotFound)
			return
		}
		logger.Error("Failed to read descriptor file", "name", name, "error", err)
		writeError(w, goerr.Wrap(err, "failed to read descriptor"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write descriptor response", "name", name, "error", err)
	}
}
