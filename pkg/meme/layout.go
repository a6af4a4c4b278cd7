package meme

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxWidth        float64 = 800
	fontSizeCoeff   float64 = 0.12
	widthPadding    float64 = 0.9
	lineHeightCoeff float64 = 1.1
	topAnchorCoeff  float64 = 0.05
	bottomAnchor    float64 = 0.95
	strokeDivider   float64 = 150
	minStrokeWidth  float64 = 2
	wordSeparator           = " "
)

var upperCaser = cases.Upper(language.Und)

// Measurer gives the rendered width of a string
type Measurer interface {
	MeasureString(string) (float64, float64)
}

// Layout holds the geometry of a meme canvas
type Layout struct {
	Width        int
	Height       int
	FontSize     float64
	StrokeWidth  float64
	MaxTextWidth float64
}

// NewLayout computes the canvas geometry for a source of the given size. Sources are downscaled to fit 800 pixels wide, never upscaled.
func NewLayout(sourceWidth, sourceHeight int) Layout {
	scale := math.Min(maxWidth/float64(sourceWidth), 1)

	width := max(1, int(math.Round(float64(sourceWidth)*scale)))
	height := max(1, int(math.Round(float64(sourceHeight)*scale)))

	return Layout{
		Width:        width,
		Height:       height,
		FontSize:     float64(width) * fontSizeCoeff,
		StrokeWidth:  math.Max(minStrokeWidth, float64(width)/strokeDivider),
		MaxTextWidth: float64(width) * widthPadding,
	}
}

// CenterX is the horizontal anchor of every line
func (l Layout) CenterX() float64 {
	return float64(l.Width) / 2
}

// LineHeight is the vertical advance between two lines
func (l Layout) LineHeight() float64 {
	return l.FontSize * lineHeightCoeff
}

// TopLines gives the top edge of each line of the top block, growing downward from 5% of the height.
func (l Layout) TopLines(count int) []float64 {
	output := make([]float64, count)
	origin := float64(l.Height) * topAnchorCoeff

	for i := range output {
		output[i] = origin + float64(i)*l.LineHeight()
	}

	return output
}

// BottomLines gives the bottom edge of each line of the bottom block. The last line sits at 95% of the height, the block grows upward.
func (l Layout) BottomLines(count int) []float64 {
	output := make([]float64, count)
	origin := float64(l.Height) * bottomAnchor

	for i := range output {
		output[i] = origin - float64(count-1-i)*l.LineHeight()
	}

	return output
}

// Uppercase a caption the way it is displayed
func Uppercase(text string) string {
	return upperCaser.String(text)
}

// WordWrap greedily splits text on single spaces so that each line fits maxWidth. A word wider than maxWidth stays whole on its own line.
func WordWrap(measurer Measurer, text string, maxWidth float64) []string {
	words := strings.Split(text, wordSeparator)

	var lines []string
	var line string

	for i, word := range words {
		candidate := line + word + wordSeparator

		if width, _ := measurer.MeasureString(candidate); width > maxWidth && i > 0 {
			lines = append(lines, strings.TrimSuffix(line, wordSeparator))
			line = word + wordSeparator
		} else {
			line = candidate
		}
	}

	return append(lines, strings.TrimSuffix(line, wordSeparator))
}
