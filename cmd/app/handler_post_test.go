package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func TestPostLifecycle(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	defer cleanupDB(t, db)

	_, authorToken := createUser(t, app, db, "author@example.com", userservice.RoleAuthor)
	_, readerToken := createUser(t, app, db, "reader@example.com", userservice.RoleReader)
	_, adminToken := createUser(t, app, db, "admin@example.com", userservice.RoleAdmin)

	code, _, body := ts.post(t, "/v1/categories", adminToken, map[string]string{"name": "Go Tips"})
	require.Equal(t, http.StatusCreated, code)
	categoryID := int(body["category"].(map[string]any)["id"].(float64))

	code, _, body = ts.post(t, "/v1/tags", authorToken, map[string]string{"name": "Concurrency"})
	require.Equal(t, http.StatusCreated, code)
	tagID := int(body["tag"].(map[string]any)["id"].(float64))

	t.Run("reader cannot create", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/posts", readerToken, map[string]any{"title": "Nope", "content": "<p>x</p>"})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("anonymous cannot create", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/posts", nil, map[string]any{"title": "Nope", "content": "<p>x</p>"})
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("missing title", func(t *testing.T) {
		code, _, body := ts.post(t, "/v1/posts", authorToken, map[string]any{"content": "<p>x</p>"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "title")
	})

	code, _, body = ts.post(t, "/v1/posts", authorToken, map[string]any{
		"title":       "Hello, World! 2024",
		"content":     "<p>Channels and goroutines</p><script>alert(1)</script>",
		"category_id": categoryID,
		"tag_ids":     []int{tagID},
	})
	require.Equal(t, http.StatusCreated, code)
	post := body["post"].(map[string]any)
	postID := itoa(int(post["id"].(float64)))

	assert.Equal(t, "hello-world-2024", post["slug"])
	assert.Equal(t, "draft", post["status"])
	assert.NotContains(t, post["content"], "<script>")
	assert.Len(t, post["tags"], 1)

	t.Run("draft is hidden from others", func(t *testing.T) {
		code, _, _ := ts.get(t, "/v1/posts/"+postID, nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/v1/posts/"+postID, readerToken)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/v1/posts/"+postID, authorToken)
		assert.Equal(t, http.StatusOK, code)

		code, _, _ = ts.get(t, "/v1/read/hello-world-2024", nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/v1/posts/"+postID+"/comments", readerToken)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.post(t, "/v1/posts/"+postID+"/comments", readerToken, map[string]any{"content": "early"})
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.post(t, "/v1/posts/"+postID+"/like", readerToken, nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.post(t, "/v1/posts/"+postID+"/views", nil, nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/v1/posts/"+postID+"/comments", authorToken)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("reader cannot update", func(t *testing.T) {
		code, _, _ := ts.put(t, "/v1/posts/"+postID, readerToken, map[string]any{"title": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("publish", func(t *testing.T) {
		code, _, body := ts.put(t, "/v1/posts/"+postID, authorToken, map[string]any{"status": "published"})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "published", body["post"].(map[string]any)["status"])
		assert.NotNil(t, body["post"].(map[string]any)["published_at"])
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		code, _, _ := ts.put(t, "/v1/posts/"+postID, authorToken, map[string]any{"title": "Again", "version": 1})
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("public read", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/read/hello-world-2024", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Hello, World! 2024", body["post"].(map[string]any)["title"])
	})

	t.Run("search", func(t *testing.T) {
		testCases := []struct {
			name  string
			query string
			count int
		}{
			{name: "no filter", query: "", count: 1},
			{name: "text match", query: "?q=goroutines", count: 1},
			{name: "text miss", query: "?q=rust", count: 0},
			{name: "category", query: "?category=go-tips", count: 1},
			{name: "all categories", query: "?category=all", count: 1},
			{name: "tag", query: "?tag=concurrency", count: 1},
			{name: "unknown tag", query: "?tag=unknown", count: 0},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				code, _, body := ts.get(t, "/v1/posts"+tc.query, nil)
				require.Equal(t, http.StatusOK, code)
				assert.Len(t, body["posts"], tc.count)
				assert.Equal(t, float64(tc.count), body["pagination"].(map[string]any)["total"])
			})
		}

		code, _, _ := ts.get(t, "/v1/posts?page=abc", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("views", func(t *testing.T) {
		code, _, body := ts.post(t, "/v1/posts/"+postID+"/views", nil, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(1), body["view_count"])

		code, _, _ = ts.post(t, "/v1/posts/999999/views", nil, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("like toggle", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/posts/"+postID+"/like", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code)

		code, _, body := ts.post(t, "/v1/posts/"+postID+"/like", readerToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, float64(1), body["like_count"])

		code, _, body = ts.get(t, "/v1/posts/"+postID+"/like", readerToken)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["user_liked"])

		code, _, body = ts.post(t, "/v1/posts/"+postID+"/like", readerToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, float64(0), body["like_count"])
	})

	t.Run("own posts", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/profile/posts?status=published", authorToken)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["posts"], 1)

		code, _, _ = ts.get(t, "/v1/profile/posts?status=bogus", authorToken)
		assert.Equal(t, http.StatusBadRequest, code)

		code, _, _ = ts.get(t, "/v1/profile/posts", readerToken)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("category in use", func(t *testing.T) {
		code, _, _ := ts.delete(t, "/v1/categories/"+itoa(categoryID), adminToken)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("taxonomy counts", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/categories", nil)
		require.Equal(t, http.StatusOK, code)
		categories := body["categories"].([]any)
		require.Len(t, categories, 1)
		assert.Equal(t, float64(1), categories[0].(map[string]any)["post_count"])
	})

	t.Run("admin deletes", func(t *testing.T) {
		code, _, _ := ts.delete(t, "/v1/posts/"+postID, readerToken)
		assert.Equal(t, http.StatusForbidden, code)

		code, _, _ = ts.delete(t, "/v1/posts/"+postID, adminToken)
		assert.Equal(t, http.StatusOK, code)

		code, _, _ = ts.get(t, "/v1/posts/"+postID, adminToken)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestComments(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	defer cleanupDB(t, db)

	_, authorToken := createUser(t, app, db, "author@example.com", userservice.RoleAuthor)
	_, readerToken := createUser(t, app, db, "reader@example.com", userservice.RoleReader)
	_, otherToken := createUser(t, app, db, "other@example.com", userservice.RoleReader)

	code, _, body := ts.post(t, "/v1/posts", authorToken, map[string]any{"title": "Threads", "content": "<p>x</p>", "status": "published"})
	require.Equal(t, http.StatusCreated, code)
	postID := itoa(int(body["post"].(map[string]any)["id"].(float64)))

	code, _, body = ts.post(t, "/v1/posts/"+postID+"/comments", readerToken, map[string]any{"content": "  first  "})
	require.Equal(t, http.StatusCreated, code)
	root := body["comment"].(map[string]any)
	rootID := int(root["id"].(float64))
	assert.Equal(t, "first", root["content"])

	code, _, body = ts.post(t, "/v1/posts/"+postID+"/comments", otherToken, map[string]any{"content": "reply", "parent_id": rootID})
	require.Equal(t, http.StatusCreated, code)
	replyID := int(body["comment"].(map[string]any)["id"].(float64))

	t.Run("threaded listing", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/posts/"+postID+"/comments", nil)
		require.Equal(t, http.StatusOK, code)

		comments := body["comments"].([]any)
		require.Len(t, comments, 1)
		replies := comments[0].(map[string]any)["replies"].([]any)
		require.Len(t, replies, 1)
		assert.Equal(t, float64(replyID), replies[0].(map[string]any)["id"])
	})

	t.Run("validation", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/posts/"+postID+"/comments", readerToken, map[string]any{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, code)

		code, _, _ = ts.post(t, "/v1/posts/999999/comments", readerToken, map[string]any{"content": "hi"})
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.post(t, "/v1/posts/"+postID+"/comments", nil, map[string]any{"content": "hi"})
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("only the owner edits", func(t *testing.T) {
		code, _, _ := ts.put(t, "/v1/comments/"+itoa(rootID), otherToken, map[string]any{"content": "edited"})
		assert.Equal(t, http.StatusForbidden, code)

		code, _, body := ts.put(t, "/v1/comments/"+itoa(rootID), readerToken, map[string]any{"content": "edited"})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "edited", body["comment"].(map[string]any)["content"])
	})

	t.Run("delete removes direct replies", func(t *testing.T) {
		code, _, _ := ts.delete(t, "/v1/comments/"+itoa(rootID), readerToken)
		require.Equal(t, http.StatusOK, code)

		code, _, body := ts.get(t, "/v1/posts/"+postID+"/comments", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, body["comments"])

		code, _, _ = ts.delete(t, "/v1/comments/"+itoa(replyID), otherToken)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
