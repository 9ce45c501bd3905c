package clicmds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/cortexchunk/chunker/internal/chunk"
)

var ignorePatterns = compileGlobs([]string{
	".git/**", "node_modules/**", "vendor/**", "dist/**", "build/**", "target/**", "__pycache__/**",
})

func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

var extLanguage = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".jsx": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".rs": "rust", ".java": "java",
	".c": "c", ".h": "c", ".cpp": "cpp", ".cc": "cpp", ".hpp": "cpp", ".rb": "ruby",
}

// discoverItems walks root (a file or directory) and builds a SourceItem
// per regular file found, tagging its source kind and content type from
// the file extension.
func discoverItems(root string) ([]chunk.SourceItem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		item, err := buildItem(root, root)
		if err != nil {
			return nil, err
		}
		return []chunk.SourceItem{item}, nil
	}

	var items []chunk.SourceItem
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)
		if shouldIgnore(relPath) {
			return nil
		}

		item, buildErr := buildItem(path, relPath)
		if buildErr != nil {
			return nil // skip unreadable files, never fail discovery
		}
		items = append(items, item)
		return nil
	})

	return items, walkErr
}

func shouldIgnore(relPath string) bool {
	for _, g := range ignorePatterns {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

func buildItem(path, label string) (chunk.SourceItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return chunk.SourceItem{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	kind := chunk.SourceKindOther
	contentType := "text/plain"

	switch {
	case ext == ".md" || ext == ".mdx" || ext == ".rst":
		kind = chunk.SourceKindDocument
		contentType = "text/markdown"
	case ext == ".csv":
		kind = chunk.SourceKindOther
		contentType = "text/csv"
	default:
		if lang, ok := extLanguage[ext]; ok {
			kind = chunk.SourceKindCodeRepo
			contentType = "text/code:" + lang
		}
	}

	return chunk.SourceItem{
		ID:          uuid.NewString(),
		SourceKind:  kind,
		ContentType: contentType,
		Content:     string(content),
		Metadata:    map[string]any{"path": label},
	}, nil
}
