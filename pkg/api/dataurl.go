package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrMalformedDataURL = errors.New("malformed data url")

// DataURL encodes image bytes the way the generation endpoint returns them,
// e.g. "data:image/png;base64,iVBOR...".
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the payload of a data URL, base64 or percent-encoded.
func DecodeDataURL(ref string) ([]byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, ErrMalformedDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrMalformedDataURL
	}

	if !strings.HasSuffix(meta, ";base64") {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		return []byte(unescaped), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return data, nil
}
