package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SplitDataURL separates a "data:<mime>;base64," prefix from its payload.
// A bare payload is returned with an empty MIME type.
func SplitDataURL(s string) (mimeType string, payload string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return "", s
	}
	header, data, ok := strings.Cut(s, ",")
	if !ok {
		return "", s
	}
	header = strings.TrimPrefix(header, "data:")
	header = strings.TrimSuffix(header, ";base64")
	return header, data
}

// DecodeImage decodes a base64 snapshot, with or without a data URL prefix.
func DecodeImage(s string) (mimeType string, data []byte, err error) {
	mimeType, payload := SplitDataURL(s)
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some capture libraries emit unpadded base64.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("invalid base64 image: %w", err)
		}
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return mimeType, data, nil
}
