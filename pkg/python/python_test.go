package python_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/tagship/pkg/python"
)

func TestReadMetadata_Project(t *testing.T) {
	root := t.TempDir()
	pyproject := `
[build-system]
requires = ["setuptools"]

[project]
name = "ezdxf"
version = "1.2.3"
`
	gt.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(pyproject), 0644))

	meta, err := python.ReadMetadata(root)
	gt.NoError(t, err)
	gt.NotNil(t, meta)
	gt.Value(t, meta.Name).Equal("ezdxf")
	gt.Value(t, meta.Version).Equal("1.2.3")
}

func TestReadMetadata_Poetry(t *testing.T) {
	root := t.TempDir()
	pyproject := `
[tool.poetry]
name = "demo-pkg"
version = "0.0.1"
`
	gt.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(pyproject), 0644))

	meta, err := python.ReadMetadata(root)
	gt.NoError(t, err)
	gt.NotNil(t, meta)
	gt.Value(t, meta.Name).Equal("demo-pkg")
	gt.Value(t, meta.Version).Equal("0.0.1")
}

func TestReadMetadata_Missing(t *testing.T) {
	// setup.py-only projects have no pyproject.toml; not an error
	meta, err := python.ReadMetadata(t.TempDir())
	gt.NoError(t, err)
	gt.Value(t, meta).Nil()
}

func TestReadMetadata_Invalid(t *testing.T) {
	root := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte("[project\nbroken"), 0644))

	_, err := python.ReadMetadata(root)
	gt.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ezdxf", "ezdxf"},
		{"Friendly.Bard", "friendly-bard"},
		{"friendly_bard", "friendly-bard"},
		{"FRIENDLY--BARD", "friendly-bard"},
		{"friendly-.bard", "friendly-bard"},
	}

	for _, tt := range tests {
		gt.Value(t, python.NormalizeName(tt.in)).Equal(tt.want)
	}
}

func TestParseSdistFilename(t *testing.T) {
	name, version, err := python.ParseSdistFilename("ezdxf-1.2.3.zip")
	gt.NoError(t, err)
	gt.Value(t, name).Equal("ezdxf")
	gt.Value(t, version).Equal("1.2.3")

	name, version, err = python.ParseSdistFilename("my-package-0.0.1rc1.tar.gz")
	gt.NoError(t, err)
	gt.Value(t, name).Equal("my-package")
	gt.Value(t, version).Equal("0.0.1rc1")

	_, _, err = python.ParseSdistFilename("README.md")
	gt.Error(t, err)

	_, _, err = python.ParseSdistFilename("noversion.zip")
	gt.Error(t, err)
}

func TestIsSdistFilename(t *testing.T) {
	gt.Value(t, python.IsSdistFilename("ezdxf-1.2.3.zip")).Equal(true)
	gt.Value(t, python.IsSdistFilename("ezdxf-1.2.3.tar.gz")).Equal(true)
	gt.Value(t, python.IsSdistFilename("ezdxf-1.2.3.whl")).Equal(false)
	gt.Value(t, python.IsSdistFilename("PKG-INFO")).Equal(false)
}

func TestFileDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	gt.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	md5Hex, sha256Hex, size, err := python.FileDigests(path)
	gt.NoError(t, err)
	gt.Value(t, size).Equal(int64(5))
	gt.Value(t, md5Hex).Equal("5d41402abc4b2a76b9719d911017c592")
	gt.Value(t, sha256Hex).Equal("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")

	_, _, _, err = python.FileDigests(filepath.Join(t.TempDir(), "missing.zip"))
	gt.Error(t, err)
}

func TestInterpreterBinary(t *testing.T) {
	gt.Value(t, python.InterpreterBinary("3.9")).Equal("python3.9")
	gt.Value(t, python.InterpreterBinary("")).Equal("python3")
}

func TestMatchesVersion(t *testing.T) {
	gt.Value(t, python.MatchesVersion([]byte("Python 3.9.18\n"), "3.9")).Equal(true)
	gt.Value(t, python.MatchesVersion([]byte("Python 3.9.18"), "3.9.18")).Equal(true)
	gt.Value(t, python.MatchesVersion([]byte("Python 3.10.2"), "3.9")).Equal(false)
	gt.Value(t, python.MatchesVersion([]byte("Python 3.19.0"), "3.1")).Equal(false)
	gt.Value(t, python.MatchesVersion([]byte("not python"), "3.9")).Equal(false)
	gt.Value(t, python.MatchesVersion([]byte(""), "")).Equal(true)
}
