package transcript

import "strings"

// Stitch concatenates rebased chunk transcripts in chunk order into one
// continuous transcript. Every chunk except the last has its [END] marker
// stripped, so the stitched output carries at most one terminal marker and
// it is exactly the final chunk's. A single-chunk input is returned as-is,
// marker included.
func Stitch(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}

	var out []string
	for i, chunk := range chunks {
		lines := splitLines(chunk)
		if i < len(chunks)-1 {
			kept := lines[:0]
			for _, line := range lines {
				if !IsEnd(line) {
					kept = append(kept, line)
				}
			}
			lines = kept
		}
		out = append(out, lines...)
	}
	return joinLines(out)
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
