package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/yojana/core"
)

// DefaultChunkSize is the soft upper bound on chunk length in bytes.
const DefaultChunkSize = 800

// ChunkSection splits a section into chunks of whole sentences. Sentences
// end at a period. Consecutive sentences are grouped until adding the next
// one would exceed maxChars; a single longer sentence becomes its own chunk.
// Chunk IDs are "<section>_c<n>" with n starting at 1, and Start/End are
// byte offsets into the section text. Returned chunks have no vector.
func ChunkSection(s Section, maxChars int) []*core.DocumentChunk {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	text := strings.ReplaceAll(s.Text, "\n", " ")

	var chunks []*core.DocumentChunk
	start, end := -1, -1
	emit := func() {
		if start < 0 {
			return
		}
		chunks = append(chunks, &core.DocumentChunk{
			Id:         core.ID(fmt.Sprintf("%s_c%d", s.ID, len(chunks)+1)),
			DocumentID: s.DocumentID,
			Page:       s.Page,
			Section:    s.ID,
			Start:      start,
			End:        end,
			Text:       text[start:end],
		})
		start, end = -1, -1
	}

	for _, span := range sentences(text) {
		if start >= 0 && span[1]-start > maxChars {
			emit()
		}
		if start < 0 {
			start = span[0]
		}
		end = span[1]
	}
	emit()
	return chunks
}

// sentences returns the [start, end) byte spans of the sentences in text,
// trimmed of surrounding spaces. A sentence includes its closing period.
func sentences(text string) [][2]int {
	var spans [][2]int
	from := 0
	for from < len(text) {
		stop := strings.IndexByte(text[from:], '.')
		to := len(text)
		if stop >= 0 {
			to = from + stop + 1
		}
		s, e := from, to
		for s < e && isSpace(text[s]) {
			s++
		}
		for e > s && isSpace(text[e-1]) {
			e--
		}
		if e > s && text[s:e] != "." {
			spans = append(spans, [2]int{s, e})
		}
		from = to
	}
	return spans
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
