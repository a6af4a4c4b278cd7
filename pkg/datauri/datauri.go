package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme        = "data:"
	base64Marker  = ";base64,"
	defaultFormat = "application/octet-stream"
)

// ErrInvalid occurs when the value is not a base64 data URI
var ErrInvalid = errors.New("invalid data uri")

// Image is a raster image encoded as a base64 data URI
type Image string

// Encode creates an Image from raw content
func Encode(mediaType string, content []byte) Image {
	if len(mediaType) == 0 {
		mediaType = defaultFormat
	}

	return Image(scheme + mediaType + base64Marker + base64.StdEncoding.EncodeToString(content))
}

// IsZero checks if instance has value
func (i Image) IsZero() bool {
	return len(i) == 0
}

// MediaType of the encoded content, empty if the value is malformed
func (i Image) MediaType() string {
	mediaType, _, ok := i.split()
	if !ok {
		return ""
	}

	return mediaType
}

// Decode returns the media type and raw content
func (i Image) Decode() (string, []byte, error) {
	mediaType, payload, ok := i.split()
	if !ok {
		return "", nil, ErrInvalid
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}

	return mediaType, content, nil
}

func (i Image) split() (string, string, bool) {
	value, ok := strings.CutPrefix(string(i), scheme)
	if !ok {
		return "", "", false
	}

	return strings.Cut(value, base64Marker)
}

// IsImageType checks if the media type designates an image
func IsImageType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
