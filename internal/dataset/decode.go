package dataset

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the code page of the published sheet.
const DefaultEncoding = "cp949"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lookupEncoding resolves an encoding label. Windows code page 949 names are
// not WHATWG labels, so they are mapped to the EUC-KR superset explicitly.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return unicode.UTF8, nil
	case "cp949", "ms949", "uhc", "windows-949", "euc-kr", "euckr":
		return korean.EUCKR, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decode converts b from the named encoding to UTF-8. A leading UTF-8 byte
// order mark is removed. Input that is already valid UTF-8 with a BOM is
// returned as is regardless of name.
func Decode(b []byte, name string) ([]byte, error) {
	if bytes.HasPrefix(b, utf8BOM) {
		return b[len(utf8BOM):], nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return b, nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, nil
}
