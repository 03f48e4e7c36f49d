package loader

import (
	"strings"

	"docchat/types"
)

// SplitPages chunks the per-page text of one document into overlapping
// fixed-size windows. Windows never cross a page boundary, so every chunk
// maps to exactly one page. Whitespace-only pages produce no chunks.
// Identical input always yields identical chunk boundaries.
func SplitPages(pages []types.PageText, sourcePath string, size, overlap int) []types.Chunk {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []types.Chunk
	idx := 0
	for _, page := range pages {
		for _, text := range splitPage(page.Text, size, overlap) {
			chunks = append(chunks, types.Chunk{
				Text:       text,
				SourcePath: sourcePath,
				PageIndex:  page.Index,
				ChunkIndex: idx,
			})
			idx++
		}
	}
	return chunks
}

func splitPage(text string, size, overlap int) []string {
	runes := []rune(text)
	step := size - overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			out = append(out, content)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
