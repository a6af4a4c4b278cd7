package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/model"
	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"github.com/ViBiOh/memegenius/pkg/acquire"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/ViBiOh/memegenius/pkg/version"
	"go.opentelemetry.io/otel/trace"
)

// Template describes a meme template of the gallery
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Catalog of trending templates
var Catalog = []Template{
	{ID: "1", Name: "Distracted Boyfriend", URL: "https://i.imgflip.com/1ur9b0.jpg"},
	{ID: "2", Name: "Drake Hotline Bling", URL: "https://i.imgflip.com/30b1gx.jpg"},
	{ID: "3", Name: "Two Buttons", URL: "https://i.imgflip.com/1g8my4.jpg"},
	{ID: "4", Name: "Change My Mind", URL: "https://i.imgflip.com/24y43o.jpg"},
}

var (
	// ErrNotFound occurs when no template has the given id
	ErrNotFound = errors.New("template not found")

	cacheDuration = time.Hour * 24
)

// Cache stores fetched templates
type Cache interface {
	Enabled() bool
	Load(context.Context, string) ([]byte, error)
	Store(context.Context, string, any, time.Duration) error
}

// Service of package
type Service struct {
	cache     Cache
	tracer    trace.Tracer
	templates []Template
}

// New creates new Service
func New(templates []Template, cache Cache, tracerProvider trace.TracerProvider) Service {
	service := Service{
		templates: templates,
		cache:     cache,
	}

	if tracerProvider != nil {
		service.tracer = tracerProvider.Tracer("gallery")
	}

	return service
}

// List the templates in display order
func (s Service) List() []Template {
	return s.templates
}

// Find a template by its id
func (s Service) Find(id string) (Template, bool) {
	for _, template := range s.templates {
		if template.ID == id {
			return template, true
		}
	}

	return Template{}, false
}

// Load the template image, from cache when available
func (s Service) Load(ctx context.Context, id string) (output datauri.Image, err error) {
	ctx, end := telemetry.StartSpan(ctx, s.tracer, "load")
	defer end(&err)

	template, ok := s.Find(id)
	if !ok {
		return "", fmt.Errorf("`%s`: %w", id, ErrNotFound)
	}

	if cached, ok := s.loadCached(ctx, template); ok {
		return cached, nil
	}

	output, err = acquire.FromURL(ctx, template.URL)
	if err != nil {
		return "", fmt.Errorf("fetch `%s`: %w", template.Name, err)
	}

	go s.store(context.WithoutCancel(ctx), template, output)

	return output, nil
}

func (s Service) loadCached(ctx context.Context, template Template) (datauri.Image, bool) {
	if !s.cacheEnabled() {
		return "", false
	}

	content, err := s.cache.Load(ctx, cacheID(template.ID))
	if err != nil {
		slog.WarnContext(ctx, "load template from cache", "id", template.ID, "error", err)
		return "", false
	}

	if len(content) == 0 {
		return "", false
	}

	return datauri.Image(content), true
}

func (s Service) store(ctx context.Context, template Template, content datauri.Image) {
	if !s.cacheEnabled() {
		return
	}

	if err := s.cache.Store(ctx, cacheID(template.ID), string(content), cacheDuration); err != nil {
		slog.ErrorContext(ctx, "save template in cache", "id", template.ID, "error", err)
	}
}

func (s Service) cacheEnabled() bool {
	return !model.IsNil(s.cache) && s.cache.Enabled()
}

func cacheID(id string) string {
	return version.Redis("template:" + id)
}
