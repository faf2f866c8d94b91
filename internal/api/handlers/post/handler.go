package post

import (
	"FoodieFriends/internal/api/handlers"
	"FoodieFriends/internal/core/posts"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler handles the post graph endpoints
type Handler struct {
	service posts.Service
}

// NewHandler creates a new post handler
func NewHandler(service posts.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /create-post
// The author name is taken from the caller's profile, never from the body.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req posts.CreatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), uid, req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post created successfully",
		"postId":  post.ID,
	})
}

// HandleList handles GET /posts?lastVisible=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPosts(r.Context(), r.URL.Query().Get("lastVisible"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /posts/{postId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, post)
}

// HandleEdit handles PUT /edit-post/{postId}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req posts.ContentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.EditPost(r.Context(), uid, chi.URLParam(r, "postId"), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Post updated successfully",
		"updatedPost": updated,
	})
}

// HandleDelete handles DELETE /delete-post/{postId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), uid, chi.URLParam(r, "postId")); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// HandleShare handles POST /share-post/{postId}
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	share, err := h.service.SharePost(r.Context(), uid, chi.URLParam(r, "postId"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"message":      "Post shared successfully",
		"sharedPostId": share.ID,
	})
}

// HandleRepost handles POST /repost/{postId}
func (h *Handler) HandleRepost(w http.ResponseWriter, r *http.Request) {
	uid, ok := handlers.RequireUserID(w, r)
	if !ok {
		return
	}

	var req posts.ContentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	repost, err := h.service.RepostPost(r.Context(), uid, chi.URLParam(r, "postId"), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Post reposted successfully",
		"repostId": repost.ID,
	})
}
