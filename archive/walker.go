// Package archive builds Walk abstraction on top of "archive/zip" for
// looking inside packed site exports without unpacking them first.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// WalkFunc is the type of the function called by Walk for every matching
// file in the archive. The archive argument is the path passed to Walk and
// the file argument is the matched entry. Returning an error stops the walk.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file in the archive under the pathIn prefix.
// The prefix is normalized to the forward slashes zip entries use, so
// callers may pass OS dependent paths directly. An entry with an unsafe
// name fails the whole walk, archives are not trusted input.
func Walk(archive, pathIn string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	prefix := filepath.ToSlash(pathIn)

	for _, f := range r.File {
		name := f.FileHeader.Name
		if escapesRoot(name) {
			return fmt.Errorf("zip entry %q: name escapes archive root", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// escapesRoot reports whether a zip entry name could climb out of the
// directory it is resolved against. Zip names use forward slashes, a
// backslash shows up only in hostile or broken archives and is rejected
// outright.
func escapesRoot(name string) bool {
	if strings.HasPrefix(name, "/") || strings.ContainsRune(name, '\\') {
		return true
	}
	clean := path.Clean(name)
	return clean == ".." || strings.HasPrefix(clean, "../")
}
