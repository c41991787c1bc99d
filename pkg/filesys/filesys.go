// Package filesys holds the directory-walking helpers the catalog CLI uses
// to populate a database from an on-disk tree: existence checks and a
// recursive file enumerator, trimmed to what a crawler actually needs
// rather than a general-purpose file utility belt.
package filesys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrIsNotDir is returned when a directory operation is given a path that
// exists but names a regular file.
var ErrIsNotDir = errors.New("path isn't a directory")

// Exists reports whether a file or directory exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WalkFiles visits every regular file under root in lexical order, calling
// fn with each file's path. It is the crawler's entry point for turning a
// directory tree into a sequence of catalog entries.
func WalkFiles(root string, fn func(path string, info os.FileInfo) error) error {
	stat, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return ErrIsNotDir
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return fn(path, info)
	})
}
