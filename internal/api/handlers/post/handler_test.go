package post

import (
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/core/posts"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostService is a mock implementation of posts.Service for testing
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, actorUID string, req posts.CreatePostRequest) (*posts.Post, error) {
	args := m.Called(ctx, actorUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, cursor string) (*posts.Page, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Page), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*posts.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *MockPostService) EditPost(ctx context.Context, actorUID, postID string, req posts.ContentRequest) (*posts.Post, error) {
	args := m.Called(ctx, actorUID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, actorUID, postID string) error {
	args := m.Called(ctx, actorUID, postID)
	return args.Error(0)
}

func (m *MockPostService) SharePost(ctx context.Context, actorUID, postID string) (*posts.Post, error) {
	args := m.Called(ctx, actorUID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *MockPostService) RepostPost(ctx context.Context, actorUID, postID string, req posts.ContentRequest) (*posts.Post, error) {
	args := m.Called(ctx, actorUID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

// newRouter mounts the handler the way routes.RegisterPostRoutes does, with
// a fixed authenticated uid when uid is not empty
func newRouter(svc posts.Service, uid string) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if uid != "" {
				req = req.WithContext(middleware.SetTestUserID(req.Context(), uid))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/create-post", h.HandleCreate)
	r.Get("/posts", h.HandleList)
	r.Get("/posts/{postId}", h.HandleGet)
	r.Put("/edit-post/{postId}", h.HandleEdit)
	r.Delete("/delete-post/{postId}", h.HandleDelete)
	r.Post("/share-post/{postId}", h.HandleShare)
	r.Post("/repost/{postId}", h.HandleRepost)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleCreate(t *testing.T) {
	svc := new(MockPostService)
	svc.On("CreatePost", mock.Anything, "u1", posts.CreatePostRequest{Title: "Ramen", Body: "Good"}).
		Return(&posts.Post{ID: "u1_1700000000000"}, nil)

	w := do(t, newRouter(svc, "u1"), http.MethodPost, "/create-post", posts.CreatePostRequest{Title: "Ramen", Body: "Good"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1_1700000000000", decode(t, w)["postId"])
	svc.AssertExpectations(t)
}

func TestHandleCreate_RequiresAuth(t *testing.T) {
	svc := new(MockPostService)
	w := do(t, newRouter(svc, ""), http.MethodPost, "/create-post", posts.CreatePostRequest{Title: "a", Body: "b"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCreate_MissingFields(t *testing.T) {
	svc := new(MockPostService)
	svc.On("CreatePost", mock.Anything, "u1", mock.Anything).
		Return(nil, posts.NewValidationError("title", "title is required"))

	w := do(t, newRouter(svc, "u1"), http.MethodPost, "/create-post", posts.CreatePostRequest{Body: "b"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleList(t *testing.T) {
	svc := new(MockPostService)
	cursor := "2024-05-01T12:00:00Z"
	svc.On("ListPosts", mock.Anything, "").Return(&posts.Page{
		Posts:       []*posts.Post{{ID: "p2", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}},
		LastVisible: &cursor,
	}, nil)
	svc.On("ListPosts", mock.Anything, "bogus").Return(nil, fmt.Errorf("%w: %q", posts.ErrInvalidCursor, "bogus"))

	router := newRouter(svc, "")

	w := do(t, router, http.MethodGet, "/posts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, cursor, body["lastVisible"])
	assert.Len(t, body["posts"], 1)

	w = do(t, router, http.MethodGet, "/posts?lastVisible=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	svc := new(MockPostService)
	svc.On("GetPost", mock.Anything, "missing").Return(nil, posts.ErrPostNotFound)

	w := do(t, newRouter(svc, ""), http.MethodGet, "/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleEdit(t *testing.T) {
	svc := new(MockPostService)
	req := posts.ContentRequest{Title: "New", Body: "Body"}
	svc.On("EditPost", mock.Anything, "u1", "p1", req).Return(&posts.Post{ID: "p1", Title: "New"}, nil)
	svc.On("EditPost", mock.Anything, "u1", "p2", req).Return(nil, posts.ErrNotAuthorized)

	router := newRouter(svc, "u1")

	w := do(t, router, http.MethodPut, "/edit-post/p1", req)
	assert.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["updatedPost"].(map[string]interface{})
	assert.Equal(t, "New", updated["title"])

	w = do(t, router, http.MethodPut, "/edit-post/p2", req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleDelete(t *testing.T) {
	svc := new(MockPostService)
	svc.On("DeletePost", mock.Anything, "u1", "p1").Return(nil)
	svc.On("DeletePost", mock.Anything, "u1", "p2").Return(posts.ErrNotAuthorized)

	router := newRouter(svc, "u1")
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/delete-post/p1", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodDelete, "/delete-post/p2", nil).Code)
}

func TestHandleShareAndRepost(t *testing.T) {
	svc := new(MockPostService)
	svc.On("SharePost", mock.Anything, "u1", "p1").Return(&posts.Post{ID: "u1_shared_1"}, nil)
	svc.On("SharePost", mock.Anything, "u1", "gone").Return(nil, posts.NewNotFoundError("original post", "gone"))
	req := posts.ContentRequest{Title: "Mine", Body: "Words"}
	svc.On("RepostPost", mock.Anything, "u1", "p1", req).Return(&posts.Post{ID: "u1_repost_1"}, nil)

	router := newRouter(svc, "u1")

	w := do(t, router, http.MethodPost, "/share-post/p1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1_shared_1", decode(t, w)["sharedPostId"])

	w = do(t, router, http.MethodPost, "/share-post/gone", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/repost/p1", req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1_repost_1", decode(t, w)["repostId"])
	svc.AssertExpectations(t)
}
