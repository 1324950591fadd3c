package feed

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/middleware"
	"github.com/nikhilv/blogfeed/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds the REST feed handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetPosts handles GET /feed/posts?page=N.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	pg, err := h.svc.List(r.Context(), page)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Fetched posts successfully.",
		"posts":      pg.Posts,
		"totalItems": pg.TotalItems,
	})
}

// GetPost handles GET /feed/post/{postId}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post fetched.",
		"post":    post,
	})
}

// CreatePost handles POST /feed/post. The image must already be uploaded
// via PUT /post-image; its path arrives in the body.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.WriteJSON(w, apperr.New(apperr.ValidationFailed, "Invalid request body."))
		return
	}

	post, creator, err := h.svc.Create(r.Context(), middleware.IdentityFrom(r.Context()), input)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Post created successfully!",
		"post":    post,
		"creator": creator,
	})
}

// UpdatePost handles PUT /feed/post/{postId}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var input models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.WriteJSON(w, apperr.New(apperr.ValidationFailed, "Invalid request body."))
		return
	}

	post, err := h.svc.Update(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "postId"), input)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post updated!",
		"post":    post,
	})
}

// DeletePost handles DELETE /feed/post/{postId}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "postId")); err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Deleted post."})
}
