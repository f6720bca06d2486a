package commentservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func setupTestEnvironment(t *testing.T) (*CommentService, *sql.DB, func()) {
	db := common.TestDB("file://../../migrations", t)

	cleanup := func() {
		for _, table := range []string{"comments", "posts", "users"} {
			_, err := db.Exec("DELETE FROM " + table)
			assert.NoError(t, err)
		}
	}

	return NewCommentService(db), db, cleanup
}

func testUser(t *testing.T, db *sql.DB, email string, role userservice.Role) *userservice.User {
	t.Helper()

	id := common.TestUser(t, db, email, string(role))
	return &userservice.User{ID: id, Email: email, Role: role}
}

func testPost(t *testing.T, db *sql.DB, authorID int, slug string) int {
	t.Helper()

	var id int
	err := db.QueryRow(`INSERT INTO posts (title, slug, content, status, author_id, published_at) VALUES ($1, $2, $3, 'published', $4, NOW()) RETURNING id`,
		slug, slug, "<p>body</p>", authorID).Scan(&id)
	require.NoError(t, err)

	return id
}

func TestCreateComment(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	user := testUser(t, db, "reader@example.com", userservice.RoleReader)
	postID := testPost(t, db, user.ID, "post-a")
	otherPostID := testPost(t, db, user.ID, "post-b")

	root, err := s.CreateComment(ctx, user, postID, &CreateCommentRequest{Content: "  first!  "})
	require.NoError(t, err)
	assert.Equal(t, "first!", root.Content)
	assert.Equal(t, user.ID, root.Author.ID)
	assert.Equal(t, "Test User", root.Author.Name)

	testCases := []struct {
		name        string
		postID      int
		req         CreateCommentRequest
		expectedErr error
	}{
		{name: "reply", postID: postID, req: CreateCommentRequest{Content: "reply", ParentID: &root.ID}},
		{name: "blank", postID: postID, req: CreateCommentRequest{Content: "   "}, expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided"}}},
		{name: "parent on other post", postID: otherPostID, req: CreateCommentRequest{Content: "x", ParentID: &root.ID}, expectedErr: common.ValidationError{Errors: map[string]string{"parent_id": "must be a comment on the same post"}}},
		{name: "missing parent", postID: postID, req: CreateCommentRequest{Content: "x", ParentID: intptr(999999)}, expectedErr: common.ValidationError{Errors: map[string]string{"parent_id": "must be a comment on the same post"}}},
		{name: "unknown post", postID: 999999, req: CreateCommentRequest{Content: "x"}, expectedErr: common.ErrRecordNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateComment(ctx, user, tc.postID, &tc.req)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestListThreadAndDelete(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	author := testUser(t, db, "author@example.com", userservice.RoleAuthor)
	other := testUser(t, db, "other@example.com", userservice.RoleReader)
	admin := testUser(t, db, "admin@example.com", userservice.RoleAdmin)
	postID := testPost(t, db, author.ID, "threaded")

	c1, err := s.CreateComment(ctx, author, postID, &CreateCommentRequest{Content: "c1"})
	require.NoError(t, err)
	c2, err := s.CreateComment(ctx, other, postID, &CreateCommentRequest{Content: "c2", ParentID: &c1.ID})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, author, postID, &CreateCommentRequest{Content: "c3", ParentID: &c2.ID})
	require.NoError(t, err)
	c4, err := s.CreateComment(ctx, other, postID, &CreateCommentRequest{Content: "c4"})
	require.NoError(t, err)

	thread, err := s.ListThread(ctx, &userservice.AnonymousUser, postID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, c1.ID, thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	require.Len(t, thread[0].Replies[0].Replies, 1)
	assert.Equal(t, c4.ID, thread[1].ID)

	_, err = s.ListThread(ctx, &userservice.AnonymousUser, 999999)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	assert.Equal(t, common.ErrForbidden, s.DeleteComment(ctx, other, c1.ID))

	// deleting c1 removes c2 as a direct reply; c3 remains stored but unreachable
	require.NoError(t, s.DeleteComment(ctx, author, c1.ID))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count))
	assert.Equal(t, 2, count)

	thread, err = s.ListThread(ctx, &userservice.AnonymousUser, postID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, c4.ID, thread[0].ID)

	require.NoError(t, s.DeleteComment(ctx, admin, c4.ID))
	assert.ErrorIs(t, s.DeleteComment(ctx, admin, c4.ID), common.ErrRecordNotFound)
}

func TestHiddenPostComments(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	author := testUser(t, db, "author@example.com", userservice.RoleAuthor)
	reader := testUser(t, db, "reader@example.com", userservice.RoleReader)
	admin := testUser(t, db, "admin@example.com", userservice.RoleAdmin)

	var draftID, scheduledID int
	err := db.QueryRow(`INSERT INTO posts (title, slug, content, status, author_id) VALUES ('d', 'draft', '<p>x</p>', 'draft', $1) RETURNING id`, author.ID).Scan(&draftID)
	require.NoError(t, err)
	err = db.QueryRow(`INSERT INTO posts (title, slug, content, status, author_id, published_at) VALUES ('s', 'scheduled', '<p>x</p>', 'published', $1, NOW() + INTERVAL '2 days') RETURNING id`, author.ID).Scan(&scheduledID)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		viewer      *userservice.User
		postID      int
		expectedErr error
	}{
		{name: "reader on draft", viewer: reader, postID: draftID, expectedErr: common.ErrRecordNotFound},
		{name: "anonymous on draft", viewer: &userservice.AnonymousUser, postID: draftID, expectedErr: common.ErrRecordNotFound},
		{name: "reader on scheduled", viewer: reader, postID: scheduledID, expectedErr: common.ErrRecordNotFound},
		{name: "owner on draft", viewer: author, postID: draftID},
		{name: "admin on scheduled", viewer: admin, postID: scheduledID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ListThread(ctx, tc.viewer, tc.postID)
			assert.Equal(t, tc.expectedErr, err)

			if tc.viewer.IsAnonymous() {
				return
			}

			_, err = s.CreateComment(ctx, tc.viewer, tc.postID, &CreateCommentRequest{Content: "hello"})
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestUpdateComment(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	author := testUser(t, db, "author@example.com", userservice.RoleAuthor)
	other := testUser(t, db, "other@example.com", userservice.RoleReader)
	admin := testUser(t, db, "admin@example.com", userservice.RoleAdmin)
	postID := testPost(t, db, author.ID, "editable")

	c, err := s.CreateComment(ctx, author, postID, &CreateCommentRequest{Content: "original"})
	require.NoError(t, err)

	testCases := []struct {
		name        string
		user        *userservice.User
		id          int
		content     string
		expectedErr error
	}{
		{name: "owner", user: author, id: c.ID, content: "edited"},
		{name: "admin", user: admin, id: c.ID, content: "moderated"},
		{name: "stranger", user: other, id: c.ID, content: "hijack", expectedErr: common.ErrForbidden},
		{name: "missing", user: author, id: 999999, content: "x", expectedErr: common.ErrRecordNotFound},
		{name: "blank", user: author, id: c.ID, content: " ", expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated, err := s.UpdateComment(ctx, tc.user, tc.id, &UpdateCommentRequest{Content: tc.content})
			assert.Equal(t, tc.expectedErr, err)
			if err == nil {
				assert.Equal(t, tc.content, updated.Content)
			}
		})
	}
}
