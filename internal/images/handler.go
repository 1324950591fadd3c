package images

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/middleware"
)

// maxUploadSize bounds the multipart form memory buffer.
const maxUploadSize = 10 << 20

// Handler exposes image upload and retrieval.
type Handler struct {
	mgr *Manager
}

func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Upload handles PUT /post-image: multipart field "image", optional
// "oldPath" naming a superseded file to clean up. A missing file or a
// disallowed type is answered with 200, not an error.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if middleware.IdentityFrom(r.Context()) == "" {
		apperr.WriteJSON(w, apperr.New(apperr.Unauthenticated, "Not authenticated!"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
		return
	}
	defer file.Close()

	if !Allowed(header.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" {
		h.mgr.Clear(oldPath)
	}

	filePath, err := h.mgr.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		apperr.WriteJSON(w, apperr.Wrap(apperr.StoreError, "Storing file failed.", err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "File stored.",
		"filePath": filePath,
	})
}

// Serve handles GET /images/* by streaming the object back.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	obj, contentType, err := h.mgr.Open(r.Context(), key)
	if err != nil {
		apperr.WriteJSON(w, apperr.New(apperr.NotFound, "Could not find image."))
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, obj)
}
