// Package transcode maps C/C++ string-literal tokens to the exact byte
// sequences a standards-conforming compiler embeds in the produced binary.
package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrUnknownPrefix means the token does not start with one of the
	// recognized literal forms ("...", L"...", u8"...", u"...", U"...").
	ErrUnknownPrefix = errors.New("unknown string literal prefix")
	// ErrTrailingBackslash means the literal body ends with a lone backslash.
	ErrTrailingBackslash = errors.New("trailing backslash in string literal")
)

type encoding int

const (
	encodeUTF8 encoding = iota
	encodeUTF16LE
	encodeUTF32LE
)

// unit is one resolved element of a literal body. Octal escapes resolve to a
// single raw code unit and must not be re-encoded as UTF-8, hence the flag.
type unit struct {
	r   rune
	raw bool
}

// Transcode turns the raw lexical text of a string literal, prefix and quotes
// included, into the bytes the compiler emits for it. Narrow and u8 literals
// become UTF-8 bytes, L and u literals UTF-16 little-endian code units, and U
// literals UTF-32 little-endian code units.
//
// Transcode is a pure function: identical input always yields identical
// output.
func Transcode(raw string) ([]byte, error) {
	body, enc, err := classify(raw)
	if err != nil {
		return nil, err
	}
	units, err := unescape(body)
	if err != nil {
		return nil, fmt.Errorf("transcoding %s: %w", raw, err)
	}
	return encode(units, enc), nil
}

func classify(raw string) (string, encoding, error) {
	strip := func(prefixLen int) (string, bool) {
		if len(raw) < prefixLen+1 || !strings.HasSuffix(raw, `"`) {
			return "", false
		}
		return raw[prefixLen : len(raw)-1], true
	}

	var body string
	var ok bool
	var enc encoding
	switch {
	case strings.HasPrefix(raw, `"`):
		body, ok = strip(1)
		enc = encodeUTF8
	case strings.HasPrefix(raw, `u8"`):
		body, ok = strip(3)
		enc = encodeUTF8
	case strings.HasPrefix(raw, `L"`), strings.HasPrefix(raw, `u"`):
		body, ok = strip(2)
		enc = encodeUTF16LE
	case strings.HasPrefix(raw, `U"`):
		body, ok = strip(2)
		enc = encodeUTF32LE
	}
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownPrefix, raw)
	}
	return body, enc, nil
}

// unescape resolves escape sequences left-to-right. Simple escapes map to
// their control character, an octal escape consumes the maximal run of up to
// three octal digits and yields one code unit truncated to the low 8 bits,
// and any other character after a backslash passes through literally.
func unescape(body string) ([]unit, error) {
	runes := []rune(body)
	units := make([]unit, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			units = append(units, unit{r: r})
			continue
		}
		if i+1 >= len(runes) {
			return nil, ErrTrailingBackslash
		}
		i++
		switch c := runes[i]; c {
		case 'a':
			units = append(units, unit{r: '\a'})
		case 'b':
			units = append(units, unit{r: '\b'})
		case 't':
			units = append(units, unit{r: '\t'})
		case 'n':
			units = append(units, unit{r: '\n'})
		case 'v':
			units = append(units, unit{r: '\v'})
		case 'f':
			units = append(units, unit{r: '\f'})
		case 'r':
			units = append(units, unit{r: '\r'})
		case ' ':
			units = append(units, unit{r: ' '})
		case '\\':
			units = append(units, unit{r: '\\'})
		case '0', '1', '2', '3', '4', '5', '6', '7':
			value := int(c - '0')
			for digits := 1; digits < 3 && i+1 < len(runes) && isOctal(runes[i+1]); digits++ {
				i++
				value = value*8 + int(runes[i]-'0')
			}
			// Values above one byte are truncated, under every encoding.
			units = append(units, unit{r: rune(value & 0xff), raw: true})
		default:
			// liberal fallback, not a validator
			units = append(units, unit{r: c})
		}
	}
	return units, nil
}

func isOctal(r rune) bool {
	return r >= '0' && r <= '7'
}

func encode(units []unit, enc encoding) []byte {
	out := make([]byte, 0, len(units))
	for _, u := range units {
		switch enc {
		case encodeUTF8:
			if u.raw {
				out = append(out, byte(u.r))
			} else {
				out = utf8.AppendRune(out, u.r)
			}
		case encodeUTF16LE:
			if u.raw {
				out = binary.LittleEndian.AppendUint16(out, uint16(u.r))
			} else {
				for _, cu := range utf16.Encode([]rune{u.r}) {
					out = binary.LittleEndian.AppendUint16(out, cu)
				}
			}
		case encodeUTF32LE:
			out = binary.LittleEndian.AppendUint32(out, uint32(u.r))
		}
	}
	return out
}
