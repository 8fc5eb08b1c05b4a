// Package fsops exposes thin interfaces over os and filepath helpers so the
// rest of the project can be tested without touching the real filesystem.
package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
)

// PathOps abstracts common filepath operations to allow mocking in tests.
type PathOps interface {
	Abs(path string) (string, error)
	Join(elem ...string) string
	Clean(path string) string
	IsAbs(path string) bool
}

// OSOps abstracts filesystem queries such as os.Stat and os.ReadFile.
type OSOps interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// Ops groups together the dependencies required by the manifests loader and
// the version bumper.
type Ops struct {
	Path PathOps
	OS   OSOps
}

// DefaultOps returns an Ops configured with the standard library implementations.
func DefaultOps() Ops {
	return Ops{
		Path: stdPathOps{},
		OS:   stdOSOps{},
	}
}

type stdPathOps struct{}

func (stdPathOps) Abs(path string) (string, error) { return filepath.Abs(path) }
func (stdPathOps) Join(elem ...string) string      { return filepath.Join(elem...) }
func (stdPathOps) Clean(path string) string        { return filepath.Clean(path) }
func (stdPathOps) IsAbs(path string) bool          { return filepath.IsAbs(path) }

type stdOSOps struct{}

func (stdOSOps) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (stdOSOps) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (stdOSOps) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
