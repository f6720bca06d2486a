package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/writeflow/internal/adminservice"
	"github.com/sushihentaime/writeflow/internal/blogservice"
	"github.com/sushihentaime/writeflow/internal/commentservice"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/config"
	"github.com/sushihentaime/writeflow/internal/mediaservice"
	"github.com/sushihentaime/writeflow/internal/newsletterservice"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

type testMocks struct {
	mb          *common.MockMessageProducer
	store       *mediaservice.MockObjectStore
	broadcaster *newsletterservice.MockBroadcaster
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "4000",
		Environment:    "testing",
		Version:        "1.0.0",
		TrustedOrigins: []string{"http://localhost:3000"},
		SiteURL:        "http://localhost:3000",
		JWTSecret:      "test-secret",
	}
}

func newTestApplication(t *testing.T) (*application, *sql.DB, *testMocks) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mocks := &testMocks{
		mb:          new(common.MockMessageProducer),
		store:       new(mediaservice.MockObjectStore),
		broadcaster: new(newsletterservice.MockBroadcaster),
	}
	mocks.mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	app := &application{
		config:            testConfig(),
		logger:            logger,
		userService:       userservice.NewUserService(db, mocks.mb, userservice.NewTokenMaker("test-secret", userservice.AuthTokenTime)),
		blogService:       blogservice.NewBlogService(db, common.NewCache(5*time.Minute, 10*time.Minute)),
		commentService:    commentservice.NewCommentService(db),
		mediaService:      mediaservice.NewMediaService(db, mocks.store),
		newsletterService: newsletterservice.NewNewsletterService(db, mocks.mb, mocks.broadcaster),
		adminService:      adminservice.NewAdminService(db, logger),
	}

	return app, db, mocks
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatalf("could not decode %q: %v", responseBody, err)
	}

	return res.StatusCode, res.Header, envelope
}

func (ts *testServer) do(t *testing.T, method, path string, token *string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// createUser registers a user with the given role and returns its id and session token.
func createUser(t *testing.T, app *application, db *sql.DB, email string, role userservice.Role) (int, *string) {
	t.Helper()

	user, token, err := app.userService.Register(context.Background(), &userservice.RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)

	if role != userservice.RoleReader {
		_, err = db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, user.ID)
		require.NoError(t, err)
	}

	return user.ID, &token.Token
}

func cleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{"media", "newsletter_subscribers", "otp_codes", "likes", "post_tags", "comments", "posts", "tags", "categories", "users"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func strptr(s string) *string {
	return &s
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
