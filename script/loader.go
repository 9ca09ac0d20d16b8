package script

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/BaSui01/blocks"
)

// LoadOption configures a single load operation.
type LoadOption func(*loadOptions)

type loadOptions struct {
	recursive    bool
	asCategories []string
}

// Recursive descends into subdirectories when loading a directory. It
// has no effect when the path names a single file.
func Recursive() LoadOption {
	return func(o *loadOptions) { o.recursive = true }
}

// AsCategories tags every plugin loaded by the operation with the
// given labels, in addition to its declared and inherited ones.
func AsCategories(categories ...string) LoadOption {
	return func(o *loadOptions) { o.asCategories = append(o.asCategories, categories...) }
}

// LoadFromFile compiles one source file and registers its plugins. A
// missing file fails with blocks.ErrNotFound.
func (e *Engine) LoadFromFile(r *blocks.Registry, path string, opts ...LoadOption) ([]blocks.Plugin, error) {
	options := buildLoadOptions(opts)
	if _, err := os.Stat(path); err != nil {
		return nil, statError(path, err)
	}
	return e.loadFile(r, path, options)
}

// LoadFromPath loads plugins from a file or directory. Directories
// take every file with the engine extension in deterministic name
// order, immediate children only unless Recursive is given. A missing
// path fails with blocks.ErrNotFound; the first file that fails to
// compile or register aborts the scan, returning the plugins loaded
// before it.
func (e *Engine) LoadFromPath(r *blocks.Registry, path string, opts ...LoadOption) ([]blocks.Plugin, error) {
	options := buildLoadOptions(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}
	if !info.IsDir() {
		return e.loadFile(r, path, options)
	}

	files, err := e.collectFiles(path, options.recursive)
	if err != nil {
		return nil, fmt.Errorf("load path %s: %w", path, err)
	}

	var loaded []blocks.Plugin
	for _, file := range files {
		plugins, err := e.loadFile(r, file, options)
		loaded = append(loaded, plugins...)
		if err != nil {
			return loaded, err
		}
	}

	e.logger.Info("path loaded",
		zap.String("path", path),
		zap.Int("files", len(files)),
		zap.Int("plugins", len(loaded)),
		zap.Bool("recursive", options.recursive))
	return loaded, nil
}

func buildLoadOptions(opts []LoadOption) loadOptions {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func statError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", blocks.ErrNotFound, path)
	}
	return fmt.Errorf("load path %s: %w", path, err)
}

// loadFile compiles path and registers the resulting module.
func (e *Engine) loadFile(r *blocks.Registry, path string, options loadOptions) ([]blocks.Plugin, error) {
	m, err := e.Compile(path)
	if err != nil {
		return nil, err
	}
	loaded, err := r.LoadFromModule(m, options.asCategories...)
	if err != nil {
		return loaded, err
	}
	e.logger.Debug("file loaded",
		zap.String("file", path),
		zap.Int("plugins", len(loaded)))
	return loaded, nil
}

// collectFiles lists the source files under dir in deterministic name
// order: immediate children only, or the whole tree when recursive.
func (e *Engine) collectFiles(dir string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != e.ext {
				continue
			}
			files = append(files, filepath.Join(dir, entry.Name()))
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != e.ext {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
