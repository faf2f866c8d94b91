package engagement

import (
	"FoodieFriends/internal/api/handlers"
	"FoodieFriends/internal/core/engagement"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler handles likes, bookmarks, and comments
type Handler struct {
	service engagement.Service
}

// NewHandler creates a new engagement handler
func NewHandler(service engagement.Service) *Handler {
	return &Handler{service: service}
}

type likeResponse struct {
	*engagement.LikeState
	Message string `json:"message"`
}

// HandleToggleLike handles POST /toggle-like/{postId}
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	state, err := h.service.ToggleLike(r.Context(), uid, chi.URLParam(r, "postId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	msg := "Post unliked"
	if state.Liked {
		msg = "Post liked"
	}
	handlers.WriteJSON(w, http.StatusOK, likeResponse{LikeState: state, Message: msg})
}

type bookmarkResponse struct {
	*engagement.BookmarkState
	Message string `json:"message"`
}

// HandleToggleBookmark handles POST /toggle-bookmark/{postId}
func (h *Handler) HandleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	state, err := h.service.ToggleBookmark(r.Context(), uid, chi.URLParam(r, "postId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	msg := "Bookmark removed"
	if state.Bookmarked {
		msg = "Post bookmarked"
	}
	handlers.WriteJSON(w, http.StatusOK, bookmarkResponse{BookmarkState: state, Message: msg})
}

// HandleAddComment handles POST /add-comment
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req engagement.CommentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), uid, req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// HandleListLikes handles GET /post-likes/{postId}
func (h *Handler) HandleListLikes(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListLikeNames(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"likes": names})
}
