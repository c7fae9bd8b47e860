package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// FileCollector finds submission files and turns them into batch items
type FileCollector struct {
	registry        *parser.Registry
	includePatterns []string
	excludePatterns []string
	maxFileSize     int64
}

// NewFileCollector creates a collector. maxFileSizeKB <= 0 disables the size limit.
func NewFileCollector(registry *parser.Registry, includePatterns, excludePatterns []string, maxFileSizeKB int) *FileCollector {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &FileCollector{
		registry:        registry,
		includePatterns: includePatterns,
		excludePatterns: excludePatterns,
		maxFileSize:     int64(maxFileSizeKB) * 1024,
	}
}

// Collect walks paths and returns the matching files in lexical order.
// Explicitly named files bypass the include patterns but not the size limit.
func (c *FileCollector) Collect(paths []string) ([]string, []domain.SkippedFile, error) {
	seen := make(map[string]bool)
	var files []string
	var skipped []domain.SkippedFile

	add := func(path string, info fs.FileInfo) {
		if seen[path] {
			return
		}
		seen[path] = true
		if c.maxFileSize > 0 && info.Size() > c.maxFileSize {
			skipped = append(skipped, domain.SkippedFile{Path: path, Reason: fmt.Sprintf("larger than %d KB", c.maxFileSize/1024)})
			return
		}
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, domain.NewFileNotFoundError(root, err)
		}
		if !info.IsDir() {
			add(root, info)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				skipped = append(skipped, domain.SkippedFile{Path: path, Reason: err.Error()})
				return nil
			}
			rel := relativeSlash(root, path)
			if d.IsDir() {
				if path != root && c.excluded(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if c.excluded(rel) || !c.included(rel) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				skipped = append(skipped, domain.SkippedFile{Path: path, Reason: err.Error()})
				return nil
			}
			add(path, info)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, skipped, nil
}

// BatchItems reads files into batch items keyed by path.
// The language comes from override, or from the file extension.
func (c *FileCollector) BatchItems(files []string, override domain.Language, options domain.AnalysisOptions) ([]domain.BatchItem, []domain.SkippedFile) {
	items := make([]domain.BatchItem, 0, len(files))
	var skipped []domain.SkippedFile
	for _, path := range files {
		language := override
		if language == "" {
			lang, ok := c.LanguageForFile(path)
			if !ok {
				skipped = append(skipped, domain.SkippedFile{Path: path, Reason: "unknown file extension"})
				continue
			}
			language = lang
		}
		content, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, domain.SkippedFile{Path: path, Reason: err.Error()})
			continue
		}
		items = append(items, domain.BatchItem{
			CorrelationID: path,
			Request: domain.AnalysisRequest{
				Source:   string(content),
				Language: language,
				Options:  options,
				Metadata: map[string]string{"path": path},
			},
		})
	}
	return items, skipped
}

// LanguageForFile maps a file extension to a registered language
func (c *FileCollector) LanguageForFile(path string) (domain.Language, bool) {
	return c.registry.LanguageForExtension(strings.ToLower(filepath.Ext(path)))
}

func (c *FileCollector) included(rel string) bool {
	if len(c.includePatterns) == 0 {
		_, ok := c.LanguageForFile(rel)
		return ok
	}
	return matchAny(c.includePatterns, rel)
}

func (c *FileCollector) excluded(rel string) bool {
	return matchAny(c.excludePatterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	base := filepath.Base(strings.TrimSuffix(rel, "/"))
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
		// A directory pattern such as **/vendor/** also covers the directory itself.
		if strings.HasSuffix(rel, "/") {
			if matched, _ := doublestar.Match(pattern, rel+"x"); matched {
				return true
			}
		}
	}
	return false
}

func relativeSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
