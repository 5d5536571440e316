package fs

import (
	i_fs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS is an interface abstracting the file system operations used by the CLI
// to load snippets and bindings. This allows for testable code by mocking
// the file system.
type FS interface {
	Stat(name string) (i_fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WalkDir(root string, fn i_fs.WalkDirFunc) error
}

// osFS implements FS using the underlying os package. This is the default
// implementation used for real file system operations.
type osFS struct{}

// NewOSFS creates a new osFS instance.
func NewOSFS() FS {
	return &osFS{}
}

func (f *osFS) Stat(name string) (i_fs.FileInfo, error) {
	return os.Stat(name)
}

func (f *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (f *osFS) WalkDir(root string, fn i_fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// SnippetFiles expands paths into snippet files. A directory contributes
// every file below it whose name ends in one of exts; a file is taken as is.
func SnippetFiles(fsys FS, paths []string, exts ...string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = fsys.WalkDir(p, func(path string, d i_fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			for _, ext := range exts {
				if strings.HasSuffix(path, ext) {
					files = append(files, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
