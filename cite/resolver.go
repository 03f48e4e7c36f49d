// Package cite turns raw retrieval hits into display-ready citations and
// matches citation snippets against rendered page text.
package cite

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"docchat/types"
)

const snippetLimit = 200

// Resolve converts retrieved chunks into a deduplicated citation list.
// Retrieval rank order is preserved; the first hit for a (source, page) pair
// wins and later duplicates are dropped. It never fails: malformed paths fall
// back to the base name and negative page indices floor at page 1.
func Resolve(results []types.Retrieved, uploadsRoot string) []types.Citation {
	citations := make([]types.Citation, 0, len(results))
	seen := make(map[string]struct{}, len(results))

	for _, r := range results {
		name := SourceName(r.SourcePath, uploadsRoot)
		page := PageDisplay(r.PageIndex)

		key := fmt.Sprintf("%s#%d", name, page)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		citations = append(citations, types.Citation{
			SourceName:  name,
			PageDisplay: page,
			Snippet:     snippetOf(r.Text),
		})
	}
	return citations
}

// SourceName derives a display-safe name from a stored source path: the path
// relative to the uploads root when that can be computed, the base name
// otherwise. Separators are always forward slashes.
func SourceName(sourcePath, uploadsRoot string) string {
	p := NormalizePath(sourcePath)
	root := NormalizePath(uploadsRoot)

	if root != "" {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
			return NormalizePath(rel)
		}
	}
	return path.Base(p)
}

// NormalizePath rewrites all path separators to forward slashes so source
// names are stable across operating systems. Idempotent.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// PageDisplay maps a stored 0-indexed page to the 1-indexed page shown to the
// user. Negative or missing indices never produce a value below 1.
func PageDisplay(pageIndex int) int {
	if pageIndex < 0 {
		return 1
	}
	return pageIndex + 1
}

func snippetOf(text string) string {
	s := strings.TrimSpace(text)
	runes := []rune(s)
	if len(runes) <= snippetLimit {
		return s
	}
	return strings.TrimSpace(string(runes[:snippetLimit]))
}
