// Package scanner locates method body boundaries in raw Tonel source.
//
// A method body is the text between a matching pair of square brackets.
// Bracket counting alone is not enough: brackets may appear inside string
// literals ('...'), comments ("..."), and character literals ($x), so the
// scanner skips those spans entirely before counting.
//
// String literals and comments both use quote doubling as their escape
// mechanism ('it''s' and "a ""quoted"" word"). A character literal is the
// $ marker plus exactly one following character, even when that character
// is a bracket or a quote.
package scanner

import "fmt"

// InvalidStartError reports that FindEnd was called on a position that
// does not hold an opening bracket.
type InvalidStartError struct {
	Pos int
}

func (e *InvalidStartError) Error() string {
	return fmt.Sprintf("position %d does not point to an opening bracket '['", e.Pos)
}

// UnmatchedBracketError reports an opening bracket whose matching ']' was
// never found before the end of the text.
type UnmatchedBracketError struct {
	OpenPos int
}

func (e *UnmatchedBracketError) Error() string {
	return fmt.Sprintf("unmatched opening bracket at position %d - no closing ']' found", e.OpenPos)
}

// Pair holds the offsets of a matched bracket pair.
type Pair struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// FindEnd returns the offset of the ']' matching the '[' at openPos.
func FindEnd(text string, openPos int) (int, error) {
	if openPos >= len(text) || text[openPos] != '[' {
		return 0, &InvalidStartError{Pos: openPos}
	}

	pos := openPos + 1
	depth := 1

	for pos < len(text) && depth > 0 {
		switch text[pos] {
		case '\'':
			pos = skipQuoted(text, pos, '\'')
			continue
		case '"':
			pos = skipQuoted(text, pos, '"')
			continue
		case '$':
			// Character literal: marker plus one character, always.
			if pos+1 < len(text) {
				pos += 2
			} else {
				pos++
			}
			continue
		case '[':
			depth++
		case ']':
			depth--
		}
		pos++
	}

	if depth > 0 {
		return 0, &UnmatchedBracketError{OpenPos: openPos}
	}
	return pos - 1, nil
}

// skipQuoted advances past a quoted span starting at startPos, where quote
// is the delimiter character. A doubled delimiter inside the span is an
// escape, not a terminator. An unclosed span runs to the end of the text.
func skipQuoted(text string, startPos int, quote byte) int {
	pos := startPos + 1
	for pos < len(text) {
		if text[pos] == quote {
			if pos+1 < len(text) && text[pos+1] == quote {
				pos += 2
				continue
			}
			return pos + 1
		}
		pos++
	}
	return len(text)
}

// Extract returns the body between the '[' at openPos and its matching
// ']', exclusive of both brackets, along with the offset of the ']'.
func Extract(text string, openPos int) (string, int, error) {
	closePos, err := FindEnd(text, openPos)
	if err != nil {
		return "", 0, err
	}
	return text[openPos+1 : closePos], closePos, nil
}

// FindAll scans the whole buffer for consecutive top-level bracket pairs.
// An opener whose match is never found is skipped by advancing one
// character past it, so a single malformed region never blocks discovery
// of subsequent valid ones.
func FindAll(text string) []Pair {
	var pairs []Pair
	pos := 0

	for pos < len(text) {
		open := indexByteFrom(text, pos, '[')
		if open == -1 {
			break
		}
		closePos, err := FindEnd(text, open)
		if err != nil {
			pos = open + 1
			continue
		}
		pairs = append(pairs, Pair{Open: open, Close: closePos})
		pos = closePos + 1
	}

	return pairs
}

func indexByteFrom(text string, from int, c byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == c {
			return i
		}
	}
	return -1
}
