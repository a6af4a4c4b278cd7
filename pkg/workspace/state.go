package workspace

import (
	"slices"
	"strings"

	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/ViBiOh/memegenius/pkg/meme"
)

const (
	captionsFailure = "Failed to generate captions. Try again."
	editFailure     = "Failed to edit image. Try a different prompt."
)

// Loading designates the long running operation in flight
type Loading string

const (
	Idle            Loading = "idle"
	Analyzing       Loading = "analyzing"
	GeneratingImage Loading = "generating-image"
)

// Tab is the active tool
type Tab string

const (
	CaptionTab Tab = "caption"
	EditTab    Tab = "edit"
)

// State of the workspace. It is never mutated, transitions return a new value.
type State struct {
	Image           datauri.Image
	Captions        []string
	SelectedCaption string
	Text            meme.Text
	EditPrompt      string
	Loading         Loading
	Error           string
	Tab             Tab
	Token           uint64
}

// NewState creates the initial state, without image
func NewState() State {
	return State{
		Captions: []string{},
		Loading:  Idle,
		Tab:      CaptionTab,
	}
}

// HasImage checks if an image is selected
func (s State) HasImage() bool {
	return !s.Image.IsZero()
}

// Busy checks if a request is in flight
func (s State) Busy() bool {
	return s.Loading != Idle
}

// CanEdit checks if an edit can be requested
func (s State) CanEdit() bool {
	return s.HasImage() && !s.Busy() && len(strings.TrimSpace(s.EditPrompt)) != 0
}

// Action is an input of the reducer
type Action interface {
	action()
}

// ImageSelected replaces the image, an empty image starts over
type ImageSelected struct {
	Image datauri.Image
}

// TextChanged replaces the captions drawn on the image
type TextChanged struct {
	Text meme.Text
}

// EditPromptChanged replaces the edit instruction
type EditPromptChanged struct {
	Prompt string
}

// TabChanged switches the active tool
type TabChanged struct {
	Tab Tab
}

// CaptionApplied uses a suggestion as bottom text
type CaptionApplied struct {
	Caption string
}

// CaptionsRequested asks for caption suggestions
type CaptionsRequested struct{}

// CaptionsSucceeded delivers suggestions of request Token
type CaptionsSucceeded struct {
	Captions []string
	Token    uint64
}

// CaptionsFailed reports the failure of request Token
type CaptionsFailed struct {
	Token uint64
}

// EditRequested asks for an edit of the image with the current prompt
type EditRequested struct{}

// EditSucceeded delivers the edited image of request Token
type EditSucceeded struct {
	Image datauri.Image
	Token uint64
}

// EditFailed reports the failure of request Token
type EditFailed struct {
	Token uint64
}

func (ImageSelected) action()     {}
func (TextChanged) action()       {}
func (EditPromptChanged) action() {}
func (TabChanged) action()        {}
func (CaptionApplied) action()    {}
func (CaptionsRequested) action() {}
func (CaptionsSucceeded) action() {}
func (CaptionsFailed) action()    {}
func (EditRequested) action()     {}
func (EditSucceeded) action()     {}
func (EditFailed) action()        {}

// Effect is a side effect to run after a transition
type Effect interface {
	effect()
}

// GenerateCaptions asks the model for captions of Image
type GenerateCaptions struct {
	Image datauri.Image
	Token uint64
}

// EditImage asks the model to edit Image with Prompt
type EditImage struct {
	Image  datauri.Image
	Prompt string
	Token  uint64
}

func (GenerateCaptions) effect() {}
func (EditImage) effect()        {}

// Reduce computes the next state and the effect to run, if any. Completions carrying an outdated token are ignored.
func Reduce(state State, action Action) (State, Effect) {
	switch typed := action.(type) {
	case ImageSelected:
		next := NewState()
		next.Image = typed.Image
		next.Tab = state.Tab
		next.Token = state.Token + 1

		return next, nil

	case TextChanged:
		state.Text = typed.Text
		return state, nil

	case EditPromptChanged:
		state.EditPrompt = typed.Prompt
		return state, nil

	case TabChanged:
		if typed.Tab != CaptionTab && typed.Tab != EditTab {
			return state, nil
		}

		state.Tab = typed.Tab
		return state, nil

	case CaptionApplied:
		state.SelectedCaption = typed.Caption
		state.Text = meme.Text{Bottom: typed.Caption}
		return state, nil

	case CaptionsRequested:
		if !state.HasImage() || state.Busy() {
			return state, nil
		}

		state.Loading = Analyzing
		state.Error = ""
		state.Token++

		return state, GenerateCaptions{Image: state.Image, Token: state.Token}

	case CaptionsSucceeded:
		if typed.Token != state.Token {
			return state, nil
		}

		state.Captions = slices.Clone(typed.Captions)
		if state.Captions == nil {
			state.Captions = []string{}
		}
		state.Loading = Idle

		return state, nil

	case CaptionsFailed:
		if typed.Token != state.Token {
			return state, nil
		}

		state.Error = captionsFailure
		state.Loading = Idle

		return state, nil

	case EditRequested:
		if !state.CanEdit() {
			return state, nil
		}

		state.Loading = GeneratingImage
		state.Error = ""
		state.Token++

		return state, EditImage{Image: state.Image, Prompt: state.EditPrompt, Token: state.Token}

	case EditSucceeded:
		if typed.Token != state.Token {
			return state, nil
		}

		state.Image = typed.Image
		state.EditPrompt = ""
		state.Loading = Idle

		return state, nil

	case EditFailed:
		if typed.Token != state.Token {
			return state, nil
		}

		state.Error = editFailure
		state.Loading = Idle

		return state, nil

	default:
		return state, nil
	}
}
