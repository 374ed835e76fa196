/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package jsonwriter

const hexDigits = "0123456789abcdef"

// safeStringSet reports which bytes can be copied into a JSON string verbatim. Everything outside
// the printable ASCII range, plus the quote and backslash, needs an escape.
var safeStringSet = [256]bool{}

func init() {
	for i := 0x20; i <= 0x7e; i++ {
		safeStringSet[i] = true
	}
	safeStringSet['"'] = false
	safeStringSet['\\'] = false
}

// WriteString writes s as a quoted JSON string, escaping control characters, the quote and
// backslash per the JSON grammar.
func (stream *Stream) WriteString(s string) {
	stream.writeOneByte('"')

	start := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if safeStringSet[b] {
			continue
		}

		if start < i {
			stream.write([]byte(s[start:i]))
		}

		switch b {
		case '"':
			stream.writeTwoBytes('\\', '"')
		case '\\':
			stream.writeTwoBytes('\\', '\\')
		case '\n':
			stream.writeTwoBytes('\\', 'n')
		case '\r':
			stream.writeTwoBytes('\\', 'r')
		case '\t':
			stream.writeTwoBytes('\\', 't')
		default:
			stream.write([]byte{'\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf]})
		}
		start = i + 1
	}
	if start < len(s) {
		stream.write([]byte(s[start:]))
	}

	stream.writeOneByte('"')
}
