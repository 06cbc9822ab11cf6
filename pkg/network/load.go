package network

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// File names read by LoadDir.
const (
	FileNetwork   = "station-network.json"
	FileSpider    = "spider.json"
	FilePaths     = "station-paths.json"
	FileAlerts    = "alerts.json"
	FileDelays    = "delaytimes.json"
	FileRidership = "peak_time_ridership.json"
)

// LoadDir reads the six network documents from dir concurrently and builds
// a Model. A missing or undecodable file is reported as MALFORMED_NETWORK
// naming the file.
func LoadDir(ctx context.Context, dir string) (*Model, error) {
	var src Sources

	g, ctx := errgroup.WithContext(ctx)
	read := func(name string, v any) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return readJSON(filepath.Join(dir, name), v)
		})
	}
	read(FileNetwork, &src.Network)
	read(FileSpider, &src.Spider)
	read(FilePaths, &src.Paths)
	read(FileAlerts, &src.Alerts)
	read(FileDelays, &src.Delays)
	read(FileRidership, &src.Ridership)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Build(src)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeMalformedNetwork, err, "missing %s", filepath.Base(path))
		}
		return errors.Wrap(errors.ErrCodeMalformedNetwork, err, "read %s", filepath.Base(path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedNetwork, err, "decode %s", filepath.Base(path))
	}
	return nil
}
