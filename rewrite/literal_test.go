/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package rewrite

import "testing"

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		raw   string
		value string
		quote Quote
		ok    bool
	}{
		{`'fs'`, "fs", QuoteSingle, true},
		{`"fs"`, "fs", QuoteDouble, true},
		{`''`, "", QuoteSingle, true},
		{`'it\'s'`, "it's", QuoteSingle, true},
		{`"a\\b"`, `a\b`, QuoteDouble, true},
		{`'\x66s'`, "fs", QuoteSingle, true},
		{`'fs'`, "fs", QuoteSingle, true},
		{`'\u{1F600}'`, "\U0001F600", QuoteSingle, true},
		{`'a\
b'`, "ab", QuoteSingle, true},
		{`'\q'`, "q", QuoteSingle, true},
		{`'\xZZ'`, "xZZ", QuoteSingle, true},
		{"`fs`", "", 0, false},
		{`'fs"`, "", 0, false},
		{`'`, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, quote, ok := parseLiteral(tt.raw)
			if ok != tt.ok {
				t.Fatalf("parseLiteral(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !ok {
				return
			}
			if value != tt.value {
				t.Errorf("parseLiteral(%q) value = %q, want %q", tt.raw, value, tt.value)
			}
			if quote != tt.quote {
				t.Errorf("parseLiteral(%q) quote = %v, want %v", tt.raw, quote, tt.quote)
			}
		})
	}
}

func TestQuote_Encode(t *testing.T) {
	tests := []struct {
		quote Quote
		value string
		want  string
	}{
		{QuoteSingle, "./__mocks__/fs.js", `'./__mocks__/fs.js'`},
		{QuoteDouble, "./__mocks__/fs.js", `"./__mocks__/fs.js"`},
		{QuoteSingle, "it's", `'it\'s'`},
		{QuoteDouble, "it's", `"it's"`},
		{QuoteDouble, `say "hi"`, `"say \"hi\""`},
		{QuoteSingle, `a\b`, `'a\\b'`},
		{QuoteSingle, "a\nb", `'a\nb'`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.quote.Encode(tt.value); got != tt.want {
				t.Errorf("%v.Encode(%q) = %s, want %s", tt.quote, tt.value, got, tt.want)
			}
			value, quote, ok := parseLiteral(tt.quote.Encode(tt.value))
			if !ok || value != tt.value || quote != tt.quote {
				t.Errorf("round trip of %q through %v gave %q, %v, %v", tt.value, tt.quote, value, quote, ok)
			}
		})
	}
}
