// Package source loads module files into memory.
package source

import (
	"os"

	"github.com/wippyai/wasm-uasm/errors"
)

// File is a module loaded into memory. Data stays valid until Close.
type File struct {
	release func() error
	Path    string
	Data    []byte
}

// Open loads the module at path. On unix the file is mapped read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open "+path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Load("stat "+path, err)
	}
	if info.IsDir() {
		return nil, errors.Load(path+" is a directory", nil)
	}
	if info.Size() == 0 {
		return &File{Path: path, Data: []byte{}}, nil
	}

	data, release, err := load(f, info.Size())
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return &File{Path: path, Data: data, release: release}, nil
}

// Close releases the module bytes. Data must not be used afterwards.
func (f *File) Close() error {
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	f.Data = nil
	if err := release(); err != nil {
		return errors.Load("release "+f.Path, err)
	}
	return nil
}
