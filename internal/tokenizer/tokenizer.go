package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// letterRunRegex matches maximal runs of alphabetic characters.
var letterRunRegex = regexp.MustCompile(`\p{L}+`)

// latin1 maps every byte to the code point with the same value.
var latin1 = charmap.ISO8859_1

// DecodeLatin1 maps each byte to the code point of the same value (0-255).
// It is total: every byte sequence decodes, and the result has exactly
// len(b) characters.
func DecodeLatin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + len(b)/4)
	for _, c := range b {
		sb.WriteRune(latin1.DecodeByte(c))
	}
	return sb.String()
}

// LowerLatin1 decodes b one-to-one and lowercases the result.
func LowerLatin1(b []byte) string {
	return strings.ToLower(DecodeLatin1(b))
}

// Words extracts maximal runs of letters from text, e.g. "don't" -> "don", "t".
func Words(text string) []string {
	words := letterRunRegex.FindAllString(text, -1)
	if words == nil {
		return make([]string, 0) // Return empty slice instead of nil
	}
	return words
}

// Fields splits text on whitespace only; punctuation stays attached.
// The file, group, record and unit separators (U+001C-U+001F) count as
// whitespace along with everything unicode.IsSpace accepts.
func Fields(text string) []string {
	return strings.FieldsFunc(text, isFieldSeparator)
}

func isFieldSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// RuneLen returns the length of word in characters.
func RuneLen(word string) int {
	return utf8.RuneCountInString(word)
}
