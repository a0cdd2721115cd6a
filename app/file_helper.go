package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/rscan/domain"
)

// directories never worth descending into, gitignore or not
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".next":        true,
	"dist":         true,
	"build":        true,
}

// FileHelper turns a file tree into analysis targets
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectSourceFiles collects JavaScript/TypeScript files from paths,
// honoring a .gitignore found at each directory root.
func (h *FileHelper) CollectSourceFiles(paths []string, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isSourceFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		ignore := loadGitignore(path)
		err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(path, filePath)
			if relErr != nil {
				rel = filePath
			}

			if info.IsDir() {
				if skippedDirs[filepath.Base(filePath)] {
					return filepath.SkipDir
				}
				if ignore != nil && rel != "." && ignore.MatchesPath(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if ignore != nil && ignore.MatchesPath(rel) {
				return nil
			}
			if h.isSourceFile(filePath) && !h.isExcluded(filePath, excludePatterns) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// BuildTargets reads the collected files into analysis targets. FileKey
// is the path relative to root when one is given, so output buckets stay
// stable across machines.
func (h *FileHelper) BuildTargets(files []string, root string) ([]domain.SourceTarget, error) {
	targets := make([]domain.SourceTarget, 0, len(files))
	for _, file := range files {
		code, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		key := file
		if root != "" {
			if rel, relErr := filepath.Rel(root, file); relErr == nil && !strings.HasPrefix(rel, "..") {
				key = filepath.ToSlash(rel)
			}
		}
		targets = append(targets, domain.SourceTarget{
			FileKey:  key,
			FileName: file,
			Code:     string(code),
		})
	}
	return targets, nil
}

// LoadBundleStats reads a bundler-produced stats file into a shared
// context carrying client bundle records.
func (h *FileHelper) LoadBundleStats(path string) (*domain.AnalysisContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle stats: %w", err)
	}

	var stats struct {
		ClientBundles []domain.ClientBundle `json:"clientBundles"`
		Bundles       []domain.ClientBundle `json:"bundles"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse bundle stats: %w", err)
	}

	bundles := stats.ClientBundles
	if len(bundles) == 0 {
		bundles = stats.Bundles
	}
	return &domain.AnalysisContext{ClientBundles: bundles}, nil
}

// FileExists checks if a path exists and is a regular file
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (h *FileHelper) isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".js" || ext == ".ts" || ext == ".jsx" || ext == ".tsx" ||
		ext == ".mjs" || ext == ".cjs" || ext == ".mts" || ext == ".cts"
}

func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *gitignore.GitIgnore {
	ignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(ignorePath); err != nil {
		return nil
	}
	ign, err := gitignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		return nil
	}
	return ign
}
