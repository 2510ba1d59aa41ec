// Package matrix loads the platform matrix that drives descriptor
// generation, either the embedded default or an operator-provided TOML file.
package matrix

import (
	_ "embed"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/zsol/python-dotslash/pkg/domain/model"
)

//go:embed default.toml
var defaultTOML []byte

// document is the TOML file layout
type document struct {
	Platforms []model.Target `toml:"platform"`
}

// Default returns the built-in platform matrix
func Default() (model.Matrix, error) {
	return parse(defaultTOML)
}

// LoadFile loads a platform matrix from a TOML file
func LoadFile(path string) (model.Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read matrix file", goerr.V("path", path))
	}

	m, err := parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid matrix file", goerr.V("path", path))
	}
	return m, nil
}

func parse(data []byte) (model.Matrix, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse matrix TOML")
	}

	m := model.Matrix(doc.Platforms)
	if len(m) == 0 {
		return nil, goerr.New("matrix has no platform entries")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
