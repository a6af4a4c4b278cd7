package acquire

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ViBiOh/memegenius/pkg/datauri"
)

type memFile struct {
	name      string
	mediaType string
	content   []byte
}

func (m memFile) Name() string { return m.name }
func (m memFile) Type() string { return m.mediaType }
func (m memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.content)), nil
}

func pngContent(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatal(err)
	}

	return buffer.Bytes()
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	content := pngContent(t, 4, 3)

	cases := map[string]struct {
		file    File
		want    datauri.Image
		wantErr error
	}{
		"png": {
			memFile{"cat.png", "image/png", content},
			datauri.Encode("image/png", content),
			nil,
		},
		"not an image type": {
			memFile{"notes.txt", "text/plain", []byte("hello")},
			"",
			ErrNotImage,
		},
		"no declared type": {
			memFile{"blob", "", content},
			"",
			ErrNotImage,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			got, err := FromFile(testCase.file)

			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("FromFile() err = %v, want %v", err, testCase.wantErr)
			}

			if got != testCase.want {
				t.Errorf("FromFile() = `%.40s`, want `%.40s`", got, testCase.want)
			}
		})
	}
}

func TestFromFileUndecodable(t *testing.T) {
	t.Parallel()

	_, err := FromFile(memFile{"broken.png", "image/png", []byte("definitely not a png")})
	if !errors.Is(err, datauri.ErrUndecodable) {
		t.Errorf("FromFile() err = %v, want %v", err, datauri.ErrUndecodable)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	content := pngContent(t, 2, 2)

	cases := map[string]struct {
		file      File
		wantCalls int
	}{
		"image": {
			memFile{"cat.png", "image/png", content},
			1,
		},
		"rejected": {
			memFile{"cat.txt", "text/plain", content},
			0,
		},
		"broken": {
			memFile{"cat.png", "image/png", []byte("nope")},
			0,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			var calls int
			Load(testCase.file, func(datauri.Image) { calls++ })

			if calls != testCase.wantCalls {
				t.Errorf("Load() called back %d times, want %d", calls, testCase.wantCalls)
			}
		})
	}
}

func encodedContent(t *testing.T, encode func(io.Writer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for x := 0; x < 6; x++ {
		img.Set(x, 1, color.RGBA{G: 200, A: 255})
	}

	var buffer bytes.Buffer
	if err := encode(&buffer, img); err != nil {
		t.Fatal(err)
	}

	return buffer.Bytes()
}

func TestFromURLFormats(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		content       []byte
		wantMediaType string
	}{
		"png": {
			encodedContent(t, png.Encode),
			"image/png",
		},
		"gif": {
			encodedContent(t, func(w io.Writer, img image.Image) error {
				return gif.Encode(w, img, nil)
			}),
			"image/gif",
		},
		"jpeg": {
			encodedContent(t, func(w io.Writer, img image.Image) error {
				return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
			}),
			"image/jpeg",
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(testCase.content)
			}))
			t.Cleanup(server.Close)

			got, err := FromURL(context.Background(), server.URL+"/template")
			if err != nil {
				t.Fatalf("FromURL() err = %v", err)
			}

			if mediaType := got.MediaType(); mediaType != testCase.wantMediaType {
				t.Errorf("FromURL() media type = `%s`, want `%s`", mediaType, testCase.wantMediaType)
			}

			if err = got.Validate(); err != nil {
				t.Errorf("FromURL() produced an undecodable image: %v", err)
			}
		})
	}
}

func TestFromURL(t *testing.T) {
	t.Parallel()

	content := pngContent(t, 5, 5)

	mux := http.NewServeMux()
	mux.HandleFunc("/meme.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(content)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>not found</body></html>"))
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Run("image", func(t *testing.T) {
		got, err := FromURL(context.Background(), server.URL+"/meme.png")
		if err != nil {
			t.Fatalf("FromURL() err = %v", err)
		}

		if mediaType := got.MediaType(); mediaType != "image/png" {
			t.Errorf("FromURL() media type = `%s`, want `image/png`", mediaType)
		}

		_, raw, err := got.Decode()
		if err != nil {
			t.Fatal(err)
		}

		config, _, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			t.Fatal(err)
		}

		if config.Width != 5 || config.Height != 5 {
			t.Errorf("FromURL() size = %dx%d, want 5x5", config.Width, config.Height)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		if _, err := FromURL(context.Background(), server.URL+"/page.html"); !errors.Is(err, ErrNotImage) {
			t.Errorf("FromURL() err = %v, want %v", err, ErrNotImage)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := FromURL(context.Background(), server.URL+"/missing.png"); err == nil {
			t.Error("FromURL() err = nil, want error")
		}
	})

	t.Run("silent load", func(t *testing.T) {
		var calls int
		LoadURL(context.Background(), server.URL+"/missing.png", func(datauri.Image) { calls++ })

		if calls != 0 {
			t.Errorf("LoadURL() called back %d times, want 0", calls)
		}
	})
}

func TestDropZone(t *testing.T) {
	t.Parallel()

	var zone DropZone

	zone.DragOver()
	if !zone.Dragging() {
		t.Error("Dragging() = false after DragOver()")
	}

	zone.DragLeave()
	if zone.Dragging() {
		t.Error("Dragging() = true after DragLeave()")
	}

	first := memFile{name: "first.png"}
	second := memFile{name: "second.png"}

	zone.DragOver()
	got, ok := zone.Drop([]File{first, second})

	if !ok || got.Name() != "first.png" {
		t.Errorf("Drop() = (%v, %t), want first file", got, ok)
	}

	if zone.Dragging() {
		t.Error("Dragging() = true after Drop()")
	}

	if _, ok := zone.Drop(nil); ok {
		t.Error("Drop(nil) accepted a file")
	}
}

func TestLocalFileType(t *testing.T) {
	t.Parallel()

	if got := LocalFile("/tmp/cat.png").Type(); got != "image/png" {
		t.Errorf("Type() = `%s`, want `image/png`", got)
	}

	if got := LocalFile("/tmp/cat.png").Name(); got != "cat.png" {
		t.Errorf("Name() = `%s`, want `cat.png`", got)
	}
}
