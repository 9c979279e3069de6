// Package encoding converts legacy code-page strings found in model files to UTF-8.
package encoding

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Lookup returns the encoding for a charset label such as "windows-1252",
// "euc-kr" or "shift_jis". An empty label or "utf-8" returns nil, meaning
// strings are used as stored.
func Lookup(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp949":
		// Windows code page 949 is a superset of EUC-KR; htmlindex has no label for it.
		return korean.EUCKR, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", label, err)
	}
	return enc, nil
}

// NameDecoder returns a function that converts a stored name to UTF-8, or
// nil when the label needs no conversion.
func NameDecoder(label string) (func(string) string, error) {
	enc, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, nil
	}
	return func(s string) string {
		return Decode(enc, []byte(s))
	}, nil
}

// Decode converts data from enc to UTF-8. ASCII input and input enc cannot
// decode are returned unchanged.
func Decode(enc encoding.Encoding, data []byte) string {
	if isASCII(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
