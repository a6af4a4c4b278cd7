package meme

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	boldFont = sync.OnceValues(func() (*truetype.Font, error) {
		return truetype.Parse(gobold.TTF)
	})

	fontFacesMutex sync.Mutex
	fontFacesSizes = map[float64]*sync.Pool{}
)

// getFontFace returns a bold face of the given pixel size and its release func. A face caches glyphs and is not safe for concurrent use.
func getFontFace(size float64) (font.Face, func(), error) {
	parsed, err := boldFont()
	if err != nil {
		return nil, nil, fmt.Errorf("parse font: %w", err)
	}

	fontFacesMutex.Lock()
	pool, ok := fontFacesSizes[size]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				return truetype.NewFace(parsed, &truetype.Options{
					Size:    size,
					DPI:     72,
					Hinting: font.HintingNone,
				})
			},
		}

		fontFacesSizes[size] = pool
	}
	fontFacesMutex.Unlock()

	fontFace := pool.Get().(font.Face)
	return fontFace, func() { pool.Put(fontFace) }, nil
}
