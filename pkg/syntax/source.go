package syntax

import (
	"strings"
	"unicode/utf8"
)

// LineCol converts a byte offset into a 1-based line and rune column.
func LineCol(src string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(src))
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}

// LinesBefore counts the line breaks between offset and the closest
// preceding non-whitespace character. Two or more means at least one blank
// line.
func LinesBefore(src string, offset int) int {
	n := 0
	for i := offset - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			n++
		case '\r':
			if i+1 >= len(src) || src[i+1] != '\n' {
				n++
			}
		case ' ', '\t', '\f':
		default:
			return n
		}
	}
	return n
}

// LinesAfter counts the line breaks between offset and the next
// non-whitespace character.
func LinesAfter(src string, offset int) int {
	n := 0
	for i := offset; i < len(src); i++ {
		switch src[i] {
		case '\n':
			n++
		case '\r':
			if i+1 >= len(src) || src[i+1] != '\n' {
				n++
			}
		case ' ', '\t', '\f':
		default:
			return n
		}
	}
	return n
}

// IsOwnLine reports whether only whitespace precedes offset on its line.
func IsOwnLine(src string, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch src[i] {
		case '\n', '\r':
			return true
		case ' ', '\t', '\f':
		default:
			return false
		}
	}
	return true
}
