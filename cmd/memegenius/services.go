package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/ViBiOh/httputils/v4/pkg/cors"
	"github.com/ViBiOh/httputils/v4/pkg/owasp"
	"github.com/ViBiOh/httputils/v4/pkg/renderer"
	"github.com/ViBiOh/httputils/v4/pkg/server"
	"github.com/ViBiOh/memegenius/pkg/gallery"
	"github.com/ViBiOh/memegenius/pkg/gemini"
	"github.com/ViBiOh/memegenius/pkg/meme"
	"github.com/ViBiOh/memegenius/pkg/workspace"
)

//go:embed templates static
var content embed.FS

type services struct {
	server   *server.Server
	owasp    owasp.Service
	cors     cors.Service
	renderer *renderer.Service

	workspace *workspace.Service
}

func newServices(ctx context.Context, config configuration, clients clients) (services, error) {
	rendererService, err := renderer.New(ctx, config.renderer, content, template.FuncMap{}, clients.telemetry.MeterProvider(), clients.telemetry.TracerProvider())
	if err != nil {
		return services{}, fmt.Errorf("renderer: %w", err)
	}

	geminiService, err := gemini.New(ctx, config.gemini, clients.telemetry.TracerProvider())
	if err != nil {
		return services{}, fmt.Errorf("gemini: %w", err)
	}

	memeService := meme.New(clients.telemetry.MeterProvider(), clients.telemetry.TracerProvider())
	galleryService := gallery.New(gallery.WithOverrides(gallery.Catalog, config.gallery.Overrides), clients.redis, clients.telemetry.TracerProvider())

	return services{
		server:   server.New(config.server),
		owasp:    owasp.New(config.owasp),
		cors:     cors.New(config.cors),
		renderer: rendererService,

		workspace: workspace.New(clients.health.EndCtx(), geminiService, memeService, galleryService),
	}, nil
}
