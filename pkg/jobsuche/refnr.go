package jobsuche

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// refnrEncoding is unpadded URL-safe base64: the detail endpoint takes the
// encoded refnr as a path segment, where '/', '+' and '=' are not safe.
var refnrEncoding = base64.RawURLEncoding.Strict()

// EncodeRefnr encodes a reference number for use in the job detail path.
//
//	EncodeRefnr("10001-1001601666-S") == "MTAwMDEtMTAwMTYwMTY2Ni1T"
func EncodeRefnr(refnr string) string {
	return refnrEncoding.EncodeToString([]byte(refnr))
}

// DecodeRefnr reverses EncodeRefnr. Input outside the URL-safe alphabet,
// including '=' padding, fails with ErrMalformedReference.
func DecodeRefnr(encoded string) (string, error) {
	// the decoder skips CR and LF, which are still illegal in a path segment
	if strings.ContainsAny(encoded, "\r\n") {
		return "", fmt.Errorf("%w: %q: line break in input", ErrMalformedReference, encoded)
	}
	raw, err := refnrEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedReference, encoded, err)
	}
	return string(raw), nil
}
