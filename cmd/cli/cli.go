package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/memegenius/pkg/acquire"
	"github.com/ViBiOh/memegenius/pkg/gallery"
	"github.com/ViBiOh/memegenius/pkg/gemini"
	"github.com/ViBiOh/memegenius/pkg/meme"
	"github.com/ViBiOh/memegenius/pkg/workspace"
)

const mode = 0o600

func main() {
	fs := flag.NewFlagSet("memegenius-cli", flag.ExitOnError)
	fs.Usage = flags.Usage(fs)

	loggerConfig := logger.Flags(fs, "logger")
	geminiConfig := gemini.Flags(fs, "gemini")
	galleryConfig := gallery.Flags(fs, "gallery")

	input := fs.String("input", "", "Input image file")
	imageURL := fs.String("url", "", "Input image URL")
	templateID := fs.String("template", "", "Template ID")
	top := fs.String("top", "", "Top text")
	bottom := fs.String("bottom", "", "Bottom text")
	suggest := fs.Bool("suggest", false, "Print caption suggestions, the first one replaces the texts when bottom text is empty")
	edit := fs.String("edit", "", "Edit instruction for the image")
	output := fs.String("output", "", "Output PNG file")

	_ = fs.Parse(os.Args[1:])

	ctx := context.Background()

	logger.Init(ctx, loggerConfig)

	geminiService, err := gemini.New(ctx, geminiConfig, nil)
	logger.FatalfOnErr(ctx, err, "create gemini")

	workspaceService := workspace.New(ctx, geminiService, meme.New(nil, nil), gallery.New(gallery.WithOverrides(gallery.Catalog, galleryConfig.Overrides), nil, nil))

	switch {
	case len(*input) != 0:
		workspaceService.Acquire(acquire.LocalFile(*input))
	case len(*imageURL) != 0:
		workspaceService.LoadURL(*imageURL)
	case len(*templateID) != 0:
		workspaceService.LoadTemplate(*templateID)
	default:
		files := make([]acquire.File, fs.NArg())
		for i, name := range fs.Args() {
			files[i] = acquire.LocalFile(name)
		}

		workspaceService.Drop(files)
	}

	workspaceService.Wait()

	if !workspaceService.State().HasImage() {
		logger.FatalfOnErr(ctx, errors.New("no image loaded, provide a readable image with -input, -url, -template or as argument"), "acquire")
	}

	if len(*edit) != 0 {
		workspaceService.SetEditPrompt(*edit)
		workspaceService.RequestEdit()
		workspaceService.Wait()

		if state := workspaceService.State(); len(state.Error) != 0 {
			logger.FatalfOnErr(ctx, errors.New(state.Error), "edit")
		}
	}

	var suggestions []string

	if *suggest {
		workspaceService.RequestCaptions()
		workspaceService.Wait()

		state := workspaceService.State()
		if len(state.Error) != 0 {
			logger.FatalfOnErr(ctx, errors.New(state.Error), "suggest")
		}

		for i, caption := range state.Captions {
			fmt.Printf("%d. %s\n", i+1, caption)
		}

		suggestions = state.Captions
	}

	applyText(workspaceService, meme.Text{Top: *top, Bottom: *bottom}, suggestions)

	if len(*output) == 0 {
		*output = meme.Filename(time.Now())
	}

	logger.FatalfOnErr(ctx, write(ctx, workspaceService, *output), "write")

	slog.InfoContext(ctx, "meme written", "output", *output)
}

// applyText uses the first suggestion like a picked caption when no bottom text is given
func applyText(workspaceService *workspace.Service, text meme.Text, suggestions []string) workspace.State {
	if len(text.Bottom) == 0 && len(suggestions) != 0 {
		return workspaceService.ApplyCaption(suggestions[0])
	}

	return workspaceService.SetText(text)
}

func write(ctx context.Context, workspaceService *workspace.Service, output string) error {
	exported, err := workspaceService.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	_, content, err := exported.Decode()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err = os.WriteFile(output, content, mode); err != nil {
		return fmt.Errorf("write `%s`: %w", output, err)
	}

	return nil
}
