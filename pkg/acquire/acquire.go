package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ViBiOh/httputils/v4/pkg/request"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-oss/image/imageutil"
)

const maxBodySize int64 = 16 << 20

var (
	// ErrNotImage occurs when the content is not declared or detected as an image
	ErrNotImage = errors.New("not an image")

	// ErrTooLarge occurs when the content exceeds the readable size
	ErrTooLarge = fmt.Errorf("content exceeds %d bytes", maxBodySize)
)

// FromFile reads a user supplied file into an encoded image
func FromFile(file File) (datauri.Image, error) {
	mediaType := file.Type()
	if !datauri.IsImageType(mediaType) {
		return "", ErrNotImage
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open `%s`: %w", file.Name(), err)
	}

	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("close file", "name", file.Name(), "error", closeErr)
		}
	}()

	content, err := readAll(reader)
	if err != nil {
		return "", fmt.Errorf("read `%s`: %w", file.Name(), err)
	}

	if err = datauri.CheckDecodable(content); err != nil {
		return "", err
	}

	return datauri.Encode(mediaType, content), nil
}

// FromURL fetches a remote image into an encoded image
func FromURL(ctx context.Context, imageURL string) (datauri.Image, error) {
	resp, err := request.Get(imageURL).Send(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("fetch URL `%s`: %w", imageURL, err)
	}

	content, err := readAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		slog.WarnContext(ctx, "close response body", "url", imageURL, "error", closeErr)
	}

	if err != nil {
		return "", fmt.Errorf("read URL `%s`: %w", imageURL, err)
	}

	detected := mimetype.Detect(content)
	if !datauri.IsImageType(detected.String()) {
		return "", ErrNotImage
	}

	// RemoveExif only handles JPEG, other formats are kept as fetched.
	if detected.Is("image/jpeg") {
		content, err = removeExif(content)
		if err != nil {
			return "", fmt.Errorf("remove exif from `%s`: %w", imageURL, err)
		}
	}

	if err = datauri.CheckDecodable(content); err != nil {
		return "", err
	}

	return datauri.Encode(detected.String(), content), nil
}

// Load reads the file and calls onLoad once on success. Rejected types are ignored silently, other failures are logged.
func Load(file File, onLoad func(datauri.Image)) {
	content, err := FromFile(file)
	if err != nil {
		if !errors.Is(err, ErrNotImage) {
			slog.Error("load file", "name", file.Name(), "error", err)
		}

		return
	}

	onLoad(content)
}

// LoadURL fetches the URL and calls onLoad once on success. Failures are logged only.
func LoadURL(ctx context.Context, imageURL string, onLoad func(datauri.Image)) {
	content, err := FromURL(ctx, imageURL)
	if err != nil {
		slog.ErrorContext(ctx, "load url", "url", imageURL, "error", err)
		return
	}

	onLoad(content)
}

func readAll(reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(reader, maxBodySize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(content)) > maxBodySize {
		return nil, ErrTooLarge
	}

	return content, nil
}

func removeExif(content []byte) ([]byte, error) {
	reader, err := imageutil.RemoveExif(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	return readAll(reader)
}
