package rope

// Summary holds aggregated metrics for a span of text. It forms a
// monoid under Add, which is what lets every tree node cache the
// summary of its subtree and answer range queries without scanning.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Lines is the number of newline characters.
	Lines uint32

	// FirstLineLen is the byte length of the first line (excluding newline).
	FirstLineLen uint32

	// LastLineLen is the byte length of the last line (excluding newline).
	LastLineLen uint32

	// LongestLine is the byte length of the longest line.
	LongestLine uint32
}

// Add combines two adjacent summaries.
func (s Summary) Add(other Summary) Summary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := Summary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}

	if other.Lines > 0 {
		result.FirstLineLen = s.FirstLineLen
		result.LastLineLen = other.LastLineLen
		joined := s.LastLineLen + other.FirstLineLen
		result.LongestLine = max(max(s.LongestLine, other.LongestLine), joined)
		if s.Lines == 0 {
			result.FirstLineLen = joined
		}
	} else {
		joined := s.LastLineLen + other.LastLineLen
		result.FirstLineLen = s.FirstLineLen
		if s.Lines == 0 {
			result.FirstLineLen = joined
		}
		result.LastLineLen = joined
		result.LongestLine = max(s.LongestLine, joined)
	}

	return result
}

// IsZero returns true if this summary covers no text.
func (s Summary) IsZero() bool {
	return s.Bytes == 0
}

// computeSummary calculates metrics for a string.
func computeSummary(s string) Summary {
	if len(s) == 0 {
		return Summary{}
	}

	var sum Summary
	sum.Bytes = len(s)

	var lineLen uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			sum.Lines++
			if sum.Lines == 1 {
				sum.FirstLineLen = lineLen
			}
			if lineLen > sum.LongestLine {
				sum.LongestLine = lineLen
			}
			lineLen = 0
		} else {
			lineLen++
		}
	}

	sum.LastLineLen = lineLen
	if sum.Lines == 0 {
		sum.FirstLineLen = lineLen
	}
	if lineLen > sum.LongestLine {
		sum.LongestLine = lineLen
	}

	return sum
}
