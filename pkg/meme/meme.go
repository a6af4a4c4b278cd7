package meme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const filenamePrefix = "meme-genius"

// ErrNoImage occurs when rendering without source image
var ErrNoImage = errors.New("no image to render")

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512*1024))
	},
}

// Text is the caption pair of a meme, stored as typed
type Text struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

// Service of package
type Service struct {
	tracer         trace.Tracer
	renderedMetric metric.Int64Counter
	exportedMetric metric.Int64Counter
}

type offset struct {
	x float64
	y float64
}

// New creates new Service
func New(meterProvider metric.MeterProvider, tracerProvider trace.TracerProvider) Service {
	var service Service

	if tracerProvider != nil {
		service.tracer = tracerProvider.Tracer("meme")
	}

	if meterProvider != nil {
		meter := meterProvider.Meter("github.com/ViBiOh/memegenius/pkg/meme")

		var err error

		service.renderedMetric, err = meter.Int64Counter("memegenius.meme.rendered")
		if err != nil {
			slog.Error("create rendered counter", "error", err)
		}

		service.exportedMetric, err = meter.Int64Counter("memegenius.meme.exported")
		if err != nil {
			slog.Error("create exported counter", "error", err)
		}
	}

	return service
}

// Render draws the source image at display size with the captions on it
func (s Service) Render(ctx context.Context, source datauri.Image, text Text) (output image.Image, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "Render")
	defer end(&err)

	if source.IsZero() {
		return nil, ErrNoImage
	}

	_, content, err := source.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	layout := NewLayout(bounds.Dx(), bounds.Dy())

	imageCtx := gg.NewContextForImage(imaging.Resize(decoded, layout.Width, layout.Height, imaging.Lanczos))

	fontFace, release, err := getFontFace(layout.FontSize)
	if err != nil {
		return nil, err
	}
	defer release()

	imageCtx.SetFontFace(fontFace)

	metrics := fontFace.Metrics()
	ascent := float64(metrics.Ascent) / 64
	descent := float64(metrics.Descent) / 64
	strokes := strokeOffsets(layout.StrokeWidth / 2)

	if len(text.Top) != 0 {
		lines := WordWrap(imageCtx, Uppercase(text.Top), layout.MaxTextWidth)

		for i, top := range layout.TopLines(len(lines)) {
			drawLine(imageCtx, lines[i], layout.CenterX(), top+ascent, strokes)
		}
	}

	if len(text.Bottom) != 0 {
		lines := WordWrap(imageCtx, Uppercase(text.Bottom), layout.MaxTextWidth)

		for i, bottom := range layout.BottomLines(len(lines)) {
			drawLine(imageCtx, lines[i], layout.CenterX(), bottom-descent, strokes)
		}
	}

	s.increaseRendered(ctx)

	return imageCtx.Image(), nil
}

// Export serializes a rendered meme to a PNG data uri
func (s Service) Export(ctx context.Context, rendered image.Image) (output datauri.Image, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "Export")
	defer end(&err)

	buffer := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(buffer)

	buffer.Reset()

	if err = png.Encode(buffer, rendered); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	s.increaseExported(ctx)

	return datauri.Encode("image/png", buffer.Bytes()), nil
}

// Filename of a downloaded meme
func Filename(now time.Time) string {
	return fmt.Sprintf("%s-%d.png", filenamePrefix, now.UnixMilli())
}

// drawLine strokes the outline with round joins then fills the text on top
func drawLine(imageCtx *gg.Context, line string, x, baseline float64, strokes []offset) {
	imageCtx.SetColor(color.Black)
	for _, stroke := range strokes {
		imageCtx.DrawStringAnchored(line, x+stroke.x, baseline+stroke.y, 0.5, 0)
	}

	imageCtx.SetColor(color.White)
	imageCtx.DrawStringAnchored(line, x, baseline, 0.5, 0)
}

func strokeOffsets(radius float64) []offset {
	n := int(math.Ceil(radius))
	squared := radius * radius

	var output []offset

	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if float64(dx*dx+dy*dy) > squared {
				continue
			}

			output = append(output, offset{x: float64(dx), y: float64(dy)})
		}
	}

	return output
}
