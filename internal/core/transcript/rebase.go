package transcript

import "time"

// Rebase shifts every parseable timestamp in one chunk's transcript forward
// to its position in the full audio timeline. The offset is whole minutes:
// chunkIndex * chunkDuration, floored to the minute, exactly how the chunks
// were cut.
//
// The function is total. Lines without a well-formed timestamp, blank
// lines, and the [END] marker pass through unchanged in place; stripping
// [END] is the stitcher's job, not this one's.
func Rebase(chunkText string, chunkIndex int, chunkDuration time.Duration) string {
	baseMinutes := int(time.Duration(chunkIndex) * chunkDuration / time.Minute)
	if baseMinutes == 0 {
		return chunkText
	}

	lines := splitLines(chunkText)
	for i, raw := range lines {
		lines[i] = rebaseLine(raw, baseMinutes)
	}
	return joinLines(lines)
}

// rebaseLine shifts a single line, preserving the remainder of the line
// byte for byte. Worst case it returns the input unmodified.
func rebaseLine(raw string, baseMinutes int) string {
	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	ts, ok := ParseTimestamp(m[1])
	if !ok {
		return raw
	}

	return "[" + ts.AddMinutes(baseMinutes).String() + "]" + m[2]
}
