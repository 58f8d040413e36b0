package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// WriteArtifact writes data to path through a temp file in the same
// directory and a rename, so a failed write leaves nothing at path. The
// parent directory must already exist.
func WriteArtifact(path string, data []byte) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New(errors.ErrCodeInternal, "refusing to write empty artifact to %s", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// OutputPath derives the file path for format from base. A base whose
// extension already names the format is returned unchanged; otherwise the
// extension is replaced.
//
//	OutputPath("Reference/directory_structure.png", "svg") // Reference/directory_structure.svg
func OutputPath(base, format string) string {
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, "."+format) {
		return base
	}
	return strings.TrimSuffix(base, ext) + "." + format
}
