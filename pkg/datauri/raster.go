package datauri

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable occurs when the content is not a raster image in a registered format
var ErrUndecodable = errors.New("undecodable image")

// CheckDecodable verifies the header of a raster image
func CheckDecodable(content []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		return fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	return nil
}

// Validate checks that the encoded content is a decodable raster image
func (i Image) Validate() error {
	_, content, err := i.Decode()
	if err != nil {
		return err
	}

	return CheckDecodable(content)
}
