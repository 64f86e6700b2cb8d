// Package python holds the small amount of Python packaging knowledge the
// pipeline needs: project metadata, index naming rules, sdist file handling
// and interpreter resolution.
package python

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Metadata is the project name and version as declared by the project
type Metadata struct {
	Name    string
	Version string
}

type pyprojectFile struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ReadMetadata reads name and version from pyproject.toml under root.
// Projects that only ship setup.py have no pyproject.toml; that is not an
// error and (nil, nil) is returned so metadata can be recovered from the
// sdist filename instead.
func ReadMetadata(root string) (*Metadata, error) {
	path := filepath.Join(root, "pyproject.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read pyproject.toml", goerr.V("path", path))
	}

	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pyproject.toml", goerr.V("path", path))
	}

	meta := &Metadata{
		Name:    file.Project.Name,
		Version: file.Project.Version,
	}
	if meta.Name == "" {
		meta.Name = file.Tool.Poetry.Name
		meta.Version = file.Tool.Poetry.Version
	}
	if meta.Name == "" {
		return nil, nil
	}

	return meta, nil
}
