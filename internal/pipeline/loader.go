// Package pipeline loads, validates and saves asset files on behalf of the
// command-line tools. The codecs in pkg/asset stay free of I/O and logging;
// this package owns both.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-asset/internal/config"
	"github.com/Faultbox/midgard-asset/pkg/asset"
)

// ErrFileTooLarge is returned for files over the configured size limit.
var ErrFileTooLarge = errors.New("asset file exceeds size limit")

// Loader reads asset files from disk.
type Loader struct {
	cfg config.DecodeConfig
	log *zap.Logger
}

// NewLoader returns a Loader enforcing cfg. A nil logger discards output.
func NewLoader(cfg config.DecodeConfig, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{cfg: cfg, log: log}
}

// ReadBytes reads a file after checking its size against the limit.
func (l *Loader) ReadBytes(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > l.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), l.cfg.MaxFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Decode decodes an in-memory buffer with the loader's options.
func (l *Loader) Decode(data []byte) (*asset.Asset, error) {
	return asset.DecodeWith(data, asset.Options{AllowTrailingData: l.cfg.AllowTrailingData})
}

// Load reads and decodes one asset file.
func (l *Loader) Load(path string) (*asset.Asset, error) {
	start := time.Now()
	data, err := l.ReadBytes(path)
	if err != nil {
		return nil, err
	}

	a, err := l.Decode(data)
	if err != nil {
		l.log.Warn("decode failed", zap.String("path", path), zap.Int("bytes", len(data)), zap.Error(err))
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	l.log.Debug("decoded asset",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Int("meshes", len(a.Meshes)),
		zap.Int("bones", a.Skeleton.BoneCount()),
		zap.Int("materials", len(a.Materials)),
		zap.Int("animations", len(a.Animations)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

// Save validates a, encodes it and writes it to path.
func (l *Loader) Save(path string, a *asset.Asset) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	data := asset.Encode(a)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	l.log.Info("saved asset", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Result is the outcome of loading one file in a batch.
type Result struct {
	Path  string
	Asset *asset.Asset
	Err   error
}

// LoadAll decodes paths with up to workers concurrent decodes. Results are
// returned in input order. Files not started before ctx is cancelled report
// the context error.
func (l *Loader) LoadAll(ctx context.Context, paths []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i].Path = paths[i]
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Asset, results[i].Err = l.Load(paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	l.log.Info("batch complete", zap.Int("files", len(paths)), zap.Int("failed", failed), zap.Int("workers", workers))
	return results
}

// FindAssets returns every file under root whose name ends in ext, in
// lexical order. A root that is a file is returned as is.
func FindAssets(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
