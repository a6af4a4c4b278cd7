package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/httperror"
	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/memegenius/pkg/acquire"
	"github.com/ViBiOh/memegenius/pkg/datauri"
	"github.com/ViBiOh/memegenius/pkg/meme"
)

const maxUploadMemory = 32 << 20

// View is the public representation of the state
type View struct {
	Captions        []string  `json:"captions"`
	Text            meme.Text `json:"text"`
	SelectedCaption string    `json:"selectedCaption"`
	EditPrompt      string    `json:"editPrompt"`
	Loading         Loading   `json:"loading"`
	Error           string    `json:"error,omitempty"`
	Tab             Tab       `json:"tab"`
	HasImage        bool      `json:"hasImage"`
	CanEdit         bool      `json:"canEdit"`
	Dragging        bool      `json:"dragging"`
	Version         uint64    `json:"version"`
}

// NewView creates the public representation of a state
func NewView(state State) View {
	return View{
		HasImage:        state.HasImage(),
		Captions:        state.Captions,
		SelectedCaption: state.SelectedCaption,
		Text:            state.Text,
		EditPrompt:      state.EditPrompt,
		Loading:         state.Loading,
		Error:           state.Error,
		Tab:             state.Tab,
		CanEdit:         state.CanEdit(),
		Version:         state.Token,
	}
}

// View of the current state, with the drop zone hover
func (s *Service) View() View {
	return s.view(s.State())
}

func (s *Service) view(state State) View {
	output := NewView(state)
	output.Dragging = s.dropZone.Dragging()

	return output
}

// Handler for workspace requests. Should be use with net/http
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(r.Context(), w, http.StatusOK, s.View())
	})

	mux.HandleFunc("POST /image", s.handleUpload)

	mux.HandleFunc("POST /template", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.FormValue("id"))
		if !s.hasTemplate(id) {
			httperror.BadRequest(r.Context(), w, fmt.Errorf("unknown template `%s`", id))
			return
		}

		s.loadTemplate(context.WithoutCancel(r.Context()), id)
		s.respond(w, r, s.State())
	})

	mux.HandleFunc("POST /drag", func(w http.ResponseWriter, r *http.Request) {
		switch r.FormValue("state") {
		case "over":
			s.dropZone.DragOver()
		case "leave":
			s.dropZone.DragLeave()
		default:
			httperror.BadRequest(r.Context(), w, fmt.Errorf("unknown drag state `%s`", r.FormValue("state")))
			return
		}

		s.respond(w, r, s.State())
	})

	mux.HandleFunc("POST /text", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.SetText(meme.Text{Top: r.FormValue("top"), Bottom: r.FormValue("bottom")}))
	})

	mux.HandleFunc("POST /prompt", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.SetEditPrompt(r.FormValue("prompt")))
	})

	mux.HandleFunc("POST /tab", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.SetTab(Tab(r.FormValue("tab"))))
	})

	mux.HandleFunc("POST /captions", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.RequestCaptions())
	})

	mux.HandleFunc("POST /captions/apply", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.ApplyCaption(r.FormValue("caption")))
	})

	mux.HandleFunc("POST /edit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err == nil && r.PostForm.Has("prompt") {
			s.SetEditPrompt(r.PostForm.Get("prompt"))
		}

		s.respond(w, r, s.RequestEdit())
	})

	mux.HandleFunc("POST /reset", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.StartOver())
	})

	mux.HandleFunc("GET /meme.png", func(w http.ResponseWriter, r *http.Request) {
		s.serveMeme(w, r, false)
	})

	mux.HandleFunc("GET /download", func(w http.ResponseWriter, r *http.Request) {
		s.serveMeme(w, r, true)
	})

	return mux
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httperror.BadRequest(r.Context(), w, fmt.Errorf("parse upload: %w", err))
		return
	}

	// Multipart temporary files are removed once the request ends, so the file is read in the request.
	if file, ok := s.dropZone.Drop(acquire.Parts(r.MultipartForm.File["file"])); ok {
		acquire.Load(file, func(content datauri.Image) {
			s.SelectImage(content)
		})
	}

	s.respond(w, r, s.State())
}

func (s *Service) serveMeme(w http.ResponseWriter, r *http.Request, attachment bool) {
	exported, err := s.Export(r.Context())
	if err != nil {
		if errors.Is(err, meme.ErrNoImage) {
			httperror.NotFound(r.Context(), w)
			return
		}

		httperror.InternalServerError(r.Context(), w, err)
		return
	}

	mediaType, content, err := exported.Decode()
	if err != nil {
		httperror.InternalServerError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Cache-Control", "no-store")
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meme.Filename(time.Now())))
	}
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(content)
}

func (s *Service) respond(w http.ResponseWriter, r *http.Request, state State) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		httpjson.Write(r.Context(), w, http.StatusOK, s.view(state))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Service) hasTemplate(id string) bool {
	for _, template := range s.gallery.List() {
		if template.ID == id {
			return true
		}
	}

	return false
}
