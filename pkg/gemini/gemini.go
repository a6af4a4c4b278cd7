package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const (
	captionPrompt = `Analyze this image and write short, funny meme captions for it.
Use internet humor and references to well known meme formats when they fit.
Return between 5 and 8 captions, best first. Each caption is a single line.`

	editPromptPrefix = "Edit this image for a meme: "
)

var (
	// ErrDisabled occurs when no API key is configured
	ErrDisabled = errors.New("generative service is not configured")

	// ErrNoImageInResponse occurs when the model answers without image
	ErrNoImageInResponse = errors.New("no image in model response")
)

// Config of package
type Config struct {
	APIKey       string
	CaptionModel string
	ImageModel   string
	BaseURL      string
	Timeout      time.Duration
}

// Flags adds flags for configuring package
func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	var config Config

	flags.New("ApiKey", "Gemini API Key").Prefix(prefix).DocPrefix("gemini").StringVar(fs, &config.APIKey, "", overrides)
	flags.New("CaptionModel", "Model used for captions").Prefix(prefix).DocPrefix("gemini").StringVar(fs, &config.CaptionModel, "gemini-3-pro-preview", overrides)
	flags.New("ImageModel", "Model used for image edition").Prefix(prefix).DocPrefix("gemini").StringVar(fs, &config.ImageModel, "gemini-2.5-flash-image", overrides)
	flags.New("BaseURL", "API base URL, empty for default").Prefix(prefix).DocPrefix("gemini").StringVar(fs, &config.BaseURL, "", overrides)
	flags.New("Timeout", "Timeout of a model call").Prefix(prefix).DocPrefix("gemini").DurationVar(fs, &config.Timeout, time.Minute*2, overrides)

	return &config
}

// Service of package
type Service struct {
	client       *genai.Client
	tracer       trace.Tracer
	captionModel string
	imageModel   string
	timeout      time.Duration
}

type captionsResponse struct {
	Captions []string `json:"captions"`
}

// New creates new Service from Config. Without API key, every call fails with ErrDisabled.
func New(ctx context.Context, config *Config, tracerProvider trace.TracerProvider) (Service, error) {
	service := Service{
		captionModel: strings.TrimPrefix(strings.TrimSpace(config.CaptionModel), "models/"),
		imageModel:   strings.TrimPrefix(strings.TrimSpace(config.ImageModel), "models/"),
		timeout:      config.Timeout,
	}

	if tracerProvider != nil {
		service.tracer = tracerProvider.Tracer("gemini")
	}

	apiKey := strings.TrimSpace(config.APIKey)
	if len(apiKey) == 0 {
		slog.WarnContext(ctx, "no Gemini API key, captions and edits are disabled")
		return service, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: strings.TrimSpace(config.BaseURL),
		},
	})
	if err != nil {
		return service, fmt.Errorf("create genai client: %w", err)
	}

	service.client = client

	return service, nil
}

// Enabled checks if requests can be sent
func (s Service) Enabled() bool {
	return s.client != nil
}

// GenerateCaptions asks the caption model for ranked captions of the image
func (s Service) GenerateCaptions(ctx context.Context, source datauri.Image) (captions []string, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "GenerateCaptions")
	defer end(&err)

	if !s.Enabled() {
		return nil, ErrDisabled
	}

	imagePart, err := newImagePart(source)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.captionModel, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{imagePart, genai.NewPartFromText(captionPrompt)}, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"captions": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"captions"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate captions: %w", err)
	}

	var payload captionsResponse
	if err = json.Unmarshal([]byte(resp.Text()), &payload); err != nil {
		return nil, fmt.Errorf("parse captions: %w", err)
	}

	return payload.Captions, nil
}

// EditImage asks the image model to apply the instruction and returns the new image
func (s Service) EditImage(ctx context.Context, source datauri.Image, instruction string) (output datauri.Image, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "EditImage")
	defer end(&err)

	if !s.Enabled() {
		return "", ErrDisabled
	}

	imagePart, err := newImagePart(source)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.imageModel, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{imagePart, genai.NewPartFromText(editPromptPrefix + instruction)}, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", fmt.Errorf("edit image: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}

			if err = datauri.CheckDecodable(part.InlineData.Data); err != nil {
				return "", fmt.Errorf("edited image: %w", err)
			}

			mediaType := part.InlineData.MIMEType
			if len(mediaType) == 0 {
				mediaType = "image/png"
			}

			return datauri.Encode(mediaType, part.InlineData.Data), nil
		}
	}

	return "", ErrNoImageInResponse
}

func (s Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func newImagePart(source datauri.Image) (*genai.Part, error) {
	mediaType, content, err := source.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return genai.NewPartFromBytes(content, mediaType), nil
}
