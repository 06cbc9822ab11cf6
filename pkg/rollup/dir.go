package rollup

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/httputil"
)

// DirSource loads rollup files from a local directory.
type DirSource struct {
	dir string
}

// NewDirSource returns a source reading files from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// String returns the directory.
func (s *DirSource) String() string { return s.dir }

// Load reads and decodes the file for from. A missing file is NOT_FOUND.
func (s *DirSource) Load(ctx context.Context, from string, progress func(pct int)) (File, error) {
	if err := errors.ValidateStationID(from); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "load rollup for %s", from)
	}

	path := filepath.Join(s.dir, FileName(from))
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no rollup for %s", from)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "open %s", path)
	}
	defer fh.Close()

	var size int64
	if info, err := fh.Stat(); err == nil {
		size = info.Size()
	}
	data, err := io.ReadAll(httputil.NewProgressReader(fh, size, progress))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "read %s", path)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "decode %s", path)
	}
	return f, nil
}
