package textsplit

import (
	"strings"
	"unicode/utf8"
)

// Separators tried in priority order when splitting oversized text:
// paragraph breaks, then line breaks, sentence ends, word boundaries, and
// finally a raw character cut so splitting always terminates.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Defaults for interactive use. The map-reduce path uses larger values
// because chunk prompts are small relative to the model's context budget.
const (
	DefaultChunkSize = 4000
	DefaultOverlap   = 200
)

// Split breaks text into chunks of at most chunkSize characters along the
// largest natural boundary available, carrying an overlap-character suffix
// from each chunk into the next so context is not lost at a cut point.
// Text that already fits is returned unchanged as a single chunk.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	// Overlap must stay strictly below the chunk size or the
	// chunk count grows without bound.
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	pieces := splitPieces(text, chunkSize, separators)
	return mergePieces(pieces, chunkSize, overlap)
}

// splitPieces recursively cuts text into fragments no longer than max,
// using the first separator in seps and falling through to the next one
// for any fragment that is still too large.
func splitPieces(text string, max int, seps []string) []string {
	if len(text) <= max {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		// Character-level fallback: hard cuts at the size limit, backed
		// up so a cut never lands mid-rune.
		var out []string
		for start := 0; start < len(text); {
			end := start + max
			if end >= len(text) {
				end = len(text)
			} else {
				for end > start && !utf8.RuneStart(text[end]) {
					end--
				}
				if end == start {
					_, size := utf8.DecodeRuneInString(text[start:])
					end = start + size
				}
			}
			if strings.TrimSpace(text[start:end]) != "" {
				out = append(out, text[start:end])
			}
			start = end
		}
		return out
	}

	var out []string
	for _, part := range strings.SplitAfter(text, sep) {
		if len(part) <= max {
			if strings.TrimSpace(part) != "" {
				out = append(out, part)
			}
			continue
		}
		out = append(out, splitPieces(part, max, seps[1:])...)
	}
	return out
}

// mergePieces greedily packs fragments back into chunks up to chunkSize,
// seeding each new chunk with the tail of the previous one.
func mergePieces(pieces []string, chunkSize, overlap int) []string {
	var chunks []string
	var cur strings.Builder

	for _, p := range pieces {
		if cur.Len() > 0 && cur.Len()+len(p) > chunkSize {
			chunk := cur.String()
			chunks = append(chunks, chunk)
			cur.Reset()

			keep := overlap
			if keep > chunkSize-len(p) {
				// Shrink the carried tail so the next chunk stays in budget.
				keep = chunkSize - len(p)
			}
			if keep > 0 && len(chunk) > keep {
				// Move the cut forward to the next rune boundary so the
				// carried tail stays valid UTF-8 and within budget.
				cut := len(chunk) - keep
				for cut < len(chunk) && !utf8.RuneStart(chunk[cut]) {
					cut++
				}
				cur.WriteString(chunk[cut:])
			}
		}
		cur.WriteString(p)
	}

	if strings.TrimSpace(cur.String()) != "" {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
