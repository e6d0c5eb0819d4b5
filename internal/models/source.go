package models

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source opens the frequency record of one language and n-gram order.
// Implementations return an error satisfying errors.Is(err, fs.ErrNotExist)
// when the record does not exist.
type Source interface {
	Open(isoCode string, order int) (io.ReadCloser, error)
}

// DirSource reads frequency files from a directory laid out as
// <dir>/<iso 639-1 code>/<order file>.
type DirSource struct {
	Dir string
}

// NewDirSource returns a DirSource rooted at the resolved models directory.
func NewDirSource(modelsDir string) DirSource {
	return DirSource{Dir: GetModelsDir(modelsDir)}
}

// Open implements Source.
func (s DirSource) Open(isoCode string, order int) (io.ReadCloser, error) {
	name, err := recordName(isoCode, order)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, filepath.FromSlash(name))) //nolint:gosec // G304: path built from validated code and fixed file name
	if err != nil {
		return nil, err
	}
	return f, nil
}

// String returns the directory the source reads from.
func (s DirSource) String() string { return s.Dir }

// FSSource reads frequency files from any fs.FS, such as an embed.FS.
// Root is the directory inside FS holding the language directories.
type FSSource struct {
	FS   fs.FS
	Root string
}

// Open implements Source.
func (s FSSource) Open(isoCode string, order int) (io.ReadCloser, error) {
	name, err := recordName(isoCode, order)
	if err != nil {
		return nil, err
	}
	root := s.Root
	if root == "" {
		root = "."
	}
	return s.FS.Open(path.Join(root, name))
}

func recordName(isoCode string, order int) (string, error) {
	file, err := FileName(order)
	if err != nil {
		return "", err
	}
	if isoCode == "" || strings.ContainsAny(isoCode, `/\.`) {
		return "", fmt.Errorf("invalid language code %q", isoCode)
	}
	return path.Join(isoCode, file), nil
}
