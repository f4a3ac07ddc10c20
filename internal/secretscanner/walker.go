package secretscanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/rs/zerolog"
)

// Walker lists the files under a scan root that the results may refer to.
// Gitleaks walks the tree on its own; the list is diagnostic.
type Walker struct {
	skip           *SkipRules
	excludedDirs   map[string]struct{}
	reportPrefixes []string
	logger         zerolog.Logger
}

// NewWalker creates a Walker. Directories named in excludedDirs or starting
// with one of reportPrefixes are not entered.
func NewWalker(skip *SkipRules, excludedDirs, reportPrefixes []string, logger zerolog.Logger) *Walker {
	dirs := make(map[string]struct{}, len(excludedDirs))
	for _, d := range excludedDirs {
		dirs[d] = struct{}{}
	}
	return &Walker{
		skip:           skip,
		excludedDirs:   dirs,
		reportPrefixes: reportPrefixes,
		logger:         logger.With().Str("module", "ScanTargetWalker").Logger(),
	}
}

// Walk returns the candidate files under root in lexical depth-first order.
func (w *Walker) Walk(root string) ([]string, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, common.WrapErrorf(common.ErrDirectoryNotFound, "scan root %s", root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			w.logger.Warn().Err(walkErr).Str("path", path).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && w.excludeDir(d.Name()) {
				w.logger.Debug().Str("dir", path).Msg("Excluded directory")
				return fs.SkipDir
			}
			return nil
		}

		if rule, skipped := w.skip.Match(path); skipped {
			w.logger.Debug().Str("file", path).Str("rule", rule).Msg("Skipped file")
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to walk %s", root)
	}

	w.logger.Info().Str("root", root).Int("count", len(files)).Msg("Files to scan")
	w.logger.Debug().Strs("files", files).Msg("Candidate files")
	return files, nil
}

func (w *Walker) excludeDir(name string) bool {
	if _, ok := w.excludedDirs[name]; ok {
		return true
	}
	for _, prefix := range w.reportPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
