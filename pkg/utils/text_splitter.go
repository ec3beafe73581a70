package utils

import "unicode"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with an 'overlap' between consecutive chunks so context at the
// boundaries is preserved. Chunk boundaries prefer whitespace near the cut
// point; if none is found within the last 10% of the chunk the text is cut
// mid-word rather than dropped.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[i:totalLen]))
			break
		}

		cut := end
		window := chunkSize / 10
		if window > overlap {
			// never back off past the overlap or text would be skipped
			window = overlap
		}
		for j := end; j > end-window && j > i; j-- {
			if unicode.IsSpace(runes[j-1]) {
				cut = j
				break
			}
		}

		chunks = append(chunks, string(runes[i:cut]))
	}

	return chunks
}
