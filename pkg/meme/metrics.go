package meme

import (
	"context"

	"github.com/ViBiOh/httputils/v4/pkg/model"
)

func (s Service) increaseRendered(ctx context.Context) {
	if model.IsNil(s.renderedMetric) {
		return
	}

	s.renderedMetric.Add(ctx, 1)
}

func (s Service) increaseExported(ctx context.Context) {
	if model.IsNil(s.exportedMetric) {
		return
	}

	s.exportedMetric.Add(ctx, 1)
}
