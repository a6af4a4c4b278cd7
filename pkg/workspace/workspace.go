package workspace

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"

	"github.com/ViBiOh/memegenius/pkg/acquire"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/ViBiOh/memegenius/pkg/gallery"
	"github.com/ViBiOh/memegenius/pkg/meme"
	"github.com/google/uuid"
)

// Generator is the remote generative model
type Generator interface {
	GenerateCaptions(context.Context, datauri.Image) ([]string, error)
	EditImage(context.Context, datauri.Image, string) (datauri.Image, error)
}

// Renderer composes and exports memes
type Renderer interface {
	Render(context.Context, datauri.Image, meme.Text) (image.Image, error)
	Export(context.Context, image.Image) (datauri.Image, error)
}

// Gallery provides the templates
type Gallery interface {
	List() []gallery.Template
	Load(context.Context, string) (datauri.Image, error)
}

// Service holds the state of the workspace and runs its side effects
type Service struct {
	ctx       context.Context
	generator Generator
	renderer  Renderer
	gallery   Gallery
	dropZone  *acquire.DropZone
	state     State
	effects   sync.WaitGroup
	mutex     sync.RWMutex
}

// New creates new Service. Effects run with ctx and are never cancelled by the user.
func New(ctx context.Context, generator Generator, renderer Renderer, galleryService Gallery) *Service {
	return &Service{
		ctx:       ctx,
		generator: generator,
		renderer:  renderer,
		gallery:   galleryService,
		dropZone:  &acquire.DropZone{},
		state:     NewState(),
	}
}

// State returns a snapshot of the current state
func (s *Service) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	output := s.state
	output.Captions = slices.Clone(s.state.Captions)

	return output
}

// Dispatch applies the action and starts the resulting effect
func (s *Service) Dispatch(action Action) State {
	s.mutex.Lock()
	next, effect := Reduce(s.state, action)
	s.state = next
	s.mutex.Unlock()

	if effect != nil {
		s.run(effect)
	}

	return next
}

// Wait blocks until every started effect has completed
func (s *Service) Wait() {
	s.effects.Wait()
}

// Templates of the gallery
func (s *Service) Templates() []gallery.Template {
	return s.gallery.List()
}

// DropZone of the uploader
func (s *Service) DropZone() *acquire.DropZone {
	return s.dropZone
}

// SelectImage replaces the image and resets everything derived from the previous one
func (s *Service) SelectImage(content datauri.Image) State {
	return s.Dispatch(ImageSelected{Image: content})
}

// StartOver goes back to the uploader
func (s *Service) StartOver() State {
	return s.Dispatch(ImageSelected{})
}

// SetText replaces both captions
func (s *Service) SetText(text meme.Text) State {
	return s.Dispatch(TextChanged{Text: text})
}

// SetEditPrompt replaces the edit instruction
func (s *Service) SetEditPrompt(prompt string) State {
	return s.Dispatch(EditPromptChanged{Prompt: prompt})
}

// SetTab switches the active tool
func (s *Service) SetTab(tab Tab) State {
	return s.Dispatch(TabChanged{Tab: tab})
}

// ApplyCaption puts a suggestion in bottom text
func (s *Service) ApplyCaption(caption string) State {
	return s.Dispatch(CaptionApplied{Caption: caption})
}

// RequestCaptions starts a caption generation if none is in flight
func (s *Service) RequestCaptions() State {
	return s.Dispatch(CaptionsRequested{})
}

// RequestEdit starts an image edition if none is in flight
func (s *Service) RequestEdit() State {
	return s.Dispatch(EditRequested{})
}

// Acquire reads the file in background and selects it on success
func (s *Service) Acquire(file acquire.File) {
	s.goEffect(func(context.Context) {
		acquire.Load(file, func(content datauri.Image) {
			s.SelectImage(content)
		})
	})
}

// Drop acquires the first dropped file
func (s *Service) Drop(files []acquire.File) {
	if file, ok := s.dropZone.Drop(files); ok {
		s.Acquire(file)
	}
}

// LoadURL fetches the image in background and selects it on success
func (s *Service) LoadURL(imageURL string) {
	s.goEffect(func(ctx context.Context) {
		acquire.LoadURL(ctx, imageURL, func(content datauri.Image) {
			s.SelectImage(content)
		})
	})
}

// LoadTemplate fetches the template in background and selects it on success. Failures are only logged.
func (s *Service) LoadTemplate(id string) {
	s.goEffect(func(ctx context.Context) {
		s.loadTemplate(ctx, id)
	})
}

func (s *Service) loadTemplate(ctx context.Context, id string) {
	content, err := s.gallery.Load(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "load template", "id", id, "error", err)
		return
	}

	s.SelectImage(content)
}

// Render composes the current image and text
func (s *Service) Render(ctx context.Context) (image.Image, error) {
	state := s.State()

	return s.renderer.Render(ctx, state.Image, state.Text)
}

// Export renders the current meme as a PNG data uri
func (s *Service) Export(ctx context.Context) (datauri.Image, error) {
	rendered, err := s.Render(ctx)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	return s.renderer.Export(ctx, rendered)
}

func (s *Service) run(effect Effect) {
	switch typed := effect.(type) {
	case GenerateCaptions:
		s.goEffect(func(ctx context.Context) {
			logger := slog.With("request", uuid.NewString(), "token", typed.Token)

			captions, err := s.generator.GenerateCaptions(ctx, typed.Image)
			if err != nil {
				logger.ErrorContext(ctx, "generate captions", "error", err)
				s.complete(logger, CaptionsFailed{Token: typed.Token}, typed.Token)
				return
			}

			s.complete(logger, CaptionsSucceeded{Captions: captions, Token: typed.Token}, typed.Token)
		})

	case EditImage:
		s.goEffect(func(ctx context.Context) {
			logger := slog.With("request", uuid.NewString(), "token", typed.Token)

			edited, err := s.generator.EditImage(ctx, typed.Image, typed.Prompt)
			if err == nil {
				err = edited.Validate()
			}

			if err != nil {
				logger.ErrorContext(ctx, "edit image", "error", err)
				s.complete(logger, EditFailed{Token: typed.Token}, typed.Token)
				return
			}

			s.complete(logger, EditSucceeded{Image: edited, Token: typed.Token}, typed.Token)
		})
	}
}

func (s *Service) complete(logger *slog.Logger, action Action, token uint64) {
	if state := s.Dispatch(action); state.Token != token {
		logger.InfoContext(s.ctx, "discard outdated response", "current", state.Token)
	}
}

func (s *Service) goEffect(effect func(context.Context)) {
	s.effects.Add(1)

	go func() {
		defer s.effects.Done()

		effect(s.ctx)
	}()
}
