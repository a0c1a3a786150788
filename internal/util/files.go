package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFileAtomic writes b to a temp file beside path and renames it into
// place, so readers never see a partial file.
func WriteFileAtomic(path string, b []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	name := tmp.Name()
	fail := func(err error, msg string) error {
		_ = tmp.Close()
		_ = os.Remove(name)
		return errors.Wrap(err, msg)
	}
	if _, err := tmp.Write(b); err != nil {
		return fail(err, "write temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(err, "chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return errors.Wrapf(err, "replace %s", filepath.Base(path))
	}
	return nil
}
