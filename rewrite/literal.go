/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package rewrite

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Quote is the delimiter of a string literal.
type Quote int

const (
	// QuoteDouble is a "double-quoted" literal.
	QuoteDouble Quote = iota
	// QuoteSingle is a 'single-quoted' literal.
	QuoteSingle
)

// Char returns the quote character.
func (q Quote) Char() byte {
	if q == QuoteSingle {
		return '\''
	}
	return '"'
}

// String returns "single" or "double".
func (q Quote) String() string {
	if q == QuoteSingle {
		return "single"
	}
	return "double"
}

// Encode renders value as a literal delimited by q.
func (q Quote) Encode(value string) string {
	quote := q.Char()
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// Literal is a string literal found in source.
type Literal struct {
	// Value is the cooked string value, escapes decoded.
	Value string

	// Quote is the original delimiter.
	Quote Quote

	// Raw is the literal's source text, quotes included.
	Raw string

	// Start and End are byte offsets of Raw in the source.
	Start, End uint

	// Line and Column are 1-based; Column counts bytes.
	Line, Column int
}

// parseLiteral splits a quoted literal into its value and quote style.
// It returns false for anything that is not a single or double quoted string.
func parseLiteral(raw string) (value string, quote Quote, ok bool) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] {
		return "", 0, false
	}
	switch raw[0] {
	case '\'':
		quote = QuoteSingle
	case '"':
		quote = QuoteDouble
	default:
		return "", 0, false
	}
	return unescape(raw[1 : len(raw)-1]), quote, true
}

// unescape decodes JavaScript string escape sequences. Malformed
// sequences are kept as the escaped character.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			// Line continuation, CRLF or lone CR.
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := hexRune(s, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteByte(e)
			}
		case 'u':
			if i+1 < len(s) && s[i+1] == '{' {
				end := strings.IndexByte(s[i+1:], '}')
				if end > 1 {
					if r, ok := hexRune(s, i+2, end-1); ok {
						b.WriteRune(r)
						i += end + 1
						continue
					}
				}
			} else if r, ok := hexRune(s, i+1, 4); ok {
				b.WriteRune(r)
				i += 4
				continue
			}
			b.WriteByte(e)
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

func hexRune(s string, start, n int) (rune, bool) {
	if start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, false
	}
	return rune(v), true
}
