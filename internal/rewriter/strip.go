package rewriter

import (
	"strings"

	"github.com/toyz/addasync/internal/errors"
)

// Strip removes every generated region from src together with the blank line
// separating it from the declaration it was generated for.
func Strip(src string) (string, error) {
	var out strings.Builder
	rest := src
	line := 1

	for {
		begin := markerLine(rest, BeginMarker)
		if begin < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}

		cut := begin
		switch {
		case strings.HasSuffix(rest[:begin], "\n\n"):
			cut = begin - 2
		case strings.HasSuffix(rest[:begin], "\n"):
			cut = begin - 1
		}
		line += strings.Count(rest[:begin], "\n")

		end := markerLine(rest[begin:], EndMarker)
		if end < 0 {
			return "", errors.NewSyntaxError("unterminated generated region", errors.SourceLocation{Line: line, Column: 1})
		}
		end += begin
		if nl := strings.IndexByte(rest[end:], '\n'); nl >= 0 {
			end += nl
		} else {
			end = len(rest)
		}

		out.WriteString(rest[:cut])
		line += strings.Count(rest[begin:end], "\n")
		rest = rest[end:]
	}
}

// HasRegions reports whether src contains generated regions
func HasRegions(src string) bool {
	return markerLine(src, BeginMarker) >= 0
}

// markerLine returns the offset of the first line whose trimmed text is
// marker, pointing at the start of that line, or -1
func markerLine(src, marker string) int {
	offset := 0
	for offset <= len(src) {
		nl := strings.IndexByte(src[offset:], '\n')
		lineEnd := len(src)
		if nl >= 0 {
			lineEnd = offset + nl
		}
		if strings.TrimSpace(src[offset:lineEnd]) == marker {
			return offset
		}
		if nl < 0 {
			return -1
		}
		offset = lineEnd + 1
	}
	return -1
}
