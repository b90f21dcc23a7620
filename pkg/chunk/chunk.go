// Package chunk splits long content into overlapping windows that share a
// common chunk group when a document is too large to embed as a single
// memory point.
package chunk

// Window is one slice of a chunked document.
type Window struct {
	Index      int
	Total      int
	Text       string
}

// Split divides text into overlapping windows of size advancing by
// size-overlap. Inputs no longer than size produce exactly one window. The
// final window may be shorter than size; windows always cover the entire
// input.
func Split(text string, size, overlap int) []Window {
	runes := []rune(text)
	if size <= 0 {
		size = len(runes)
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if len(runes) <= size {
		return []Window{{Index: 0, Total: 1, Text: text}}
	}

	stride := size - overlap
	var starts []int
	for start := 0; start < len(runes); start += stride {
		starts = append(starts, start)
		if start+size >= len(runes) {
			break
		}
	}

	windows := make([]Window, len(starts))
	total := len(starts)
	for i, start := range starts {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows[i] = Window{Index: i, Total: total, Text: string(runes[start:end])}
	}
	return windows
}
