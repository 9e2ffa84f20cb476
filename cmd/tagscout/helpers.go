package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"tagscout/internal/loader"
	"tagscout/internal/tagio"
	"tagscout/internal/track"
)

var audioExtensions = map[string]struct{}{
	".flac": {},
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
}

// collectAudioFiles resolves each argument to audio file paths. Directories
// are walked recursively; explicit files are taken as-is.
func collectAudioFiles(args []string, fallbackDir string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		if fallbackDir == "" {
			return nil, fmt.Errorf("no paths given and paths.library_dir is not configured")
		}
		roots = []string{fallbackDir}
	}

	var paths []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			paths = append(paths, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := audioExtensions[ext]; ok {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// loadWorkingSet loads tags for the paths and installs them as the session
// working set. Progress goes to stderr when it is a terminal.
func loadWorkingSet(ctx context.Context, rt *runtime, paths []string) (loader.Result, error) {
	var onProgress loader.ProgressFunc
	interactive := isatty.IsTerminal(os.Stderr.Fd())
	if interactive {
		onProgress = func(p loader.Progress) {
			fmt.Fprintf(os.Stderr, "\rLoading %d/%d (%.0f%%)", p.Completed, p.Total, p.Percent)
		}
	}

	runner := loader.New(tagio.NewPathReader(), loader.Options{
		Logger:     rt.logger,
		MaxWorkers: rt.cfg.Loader.MaxWorkers,
		OnProgress: onProgress,
	})
	result, err := runner.Load(ctx, paths)
	if interactive {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return result, err
	}

	rt.sess.SetWorkingSet(result.Tracks)
	return result, nil
}

// parseSources maps the --source flag to concrete text-search sources.
// "all" (or empty) selects both text-search catalogs.
func parseSources(flag string) ([]track.Source, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag == "" || flag == "all" {
		return []track.Source{track.SourceCatalog, track.SourceMarketplace}, nil
	}
	var selected []track.Source
	for _, name := range strings.Split(flag, ",") {
		source, ok := track.ParseSource(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (expected catalog, marketplace, or all)", name)
		}
		if source == track.SourceFingerprint {
			return nil, fmt.Errorf("fingerprint matching runs through `tagscout identify`")
		}
		selected = append(selected, source)
	}
	return selected, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
