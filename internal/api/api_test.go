package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/covalence/internal/auth"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/mockdata"
	"gwi.com/covalence/internal/session"
	"gwi.com/covalence/internal/store"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T, delay time.Duration) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	roster, err := auth.NewRoster(time.Now())
	require.NoError(t, err)
	sessions := session.NewStore(store.NewMemoryStore(), "", logger)
	authService := auth.NewService(roster, sessions, logger)
	mock, err := mockdata.Default()
	require.NoError(t, err)

	h := NewAPIHandler(authService, auth.NewTokenIssuer("test-secret", time.Hour), core.NewChatService(delay, logger), mock, logger)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t}
}

func (s *testServer) do(method, path, token string, body any) (*http.Response, []byte) {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, rdr)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, data
}

func (s *testServer) signIn(email string) string {
	s.t.Helper()
	resp, data := s.do(http.MethodPost, "/api/auth/signin", "", SignInRequest{Email: email, Password: auth.DemoPassword})
	require.Equal(s.t, http.StatusOK, resp.StatusCode, string(data))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(data, &out))
	return out.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, data := srv.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestSignIn(t *testing.T) {
	srv := newTestServer(t, 0)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		errMsg   string
	}{
		{"ok", "analyst@demo.com", "demo123", http.StatusOK, ""},
		{"wrong password", "analyst@demo.com", "nope", http.StatusUnauthorized, auth.ErrInvalidPassword.Error()},
		{"unknown email", "someone@demo.com", "demo123", http.StatusUnauthorized, auth.ErrUnknownEmail.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := srv.do(http.MethodPost, "/api/auth/signin", "", SignInRequest{Email: tt.email, Password: tt.password})
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.errMsg != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(data, &body))
				assert.Equal(t, tt.errMsg, body["error"])
				return
			}
			var body struct {
				Token string `json:"token"`
				User  struct {
					Email    string `json:"email"`
					Role     string `json:"role"`
					FullName string `json:"full_name"`
				} `json:"user"`
			}
			require.NoError(t, json.Unmarshal(data, &body))
			assert.NotEmpty(t, body.Token)
			assert.Equal(t, "analyst", body.User.Role)
			assert.Equal(t, "Analyst User", body.User.FullName)
		})
	}
}

func TestSignIn_BadBody(t *testing.T) {
	srv := newTestServer(t, 0)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/signin", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignUp_ThenNavigation(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, data := srv.do(http.MethodPost, "/api/auth/signup", "", SignUpRequest{
		Email: "new@corp.com", Password: "x", FullName: "New Person", Role: "superuser",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "superuser", out.User.Role)

	resp, data = srv.do(http.MethodGet, "/api/navigation", out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var navResp NavigationResponse
	require.NoError(t, json.Unmarshal(data, &navResp))
	assert.Len(t, navResp.Sections, 3)
}

func TestSession(t *testing.T) {
	srv := newTestServer(t, 0)

	_, data := srv.do(http.MethodGet, "/api/session", "", nil)
	assert.JSONEq(t, `{"user":null}`, string(data))

	srv.signIn("manager@demo.com")
	_, data = srv.do(http.MethodGet, "/api/session", "", nil)
	var body struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "manager@demo.com", body.User.Email)
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, _ := srv.do(http.MethodGet, "/api/navigation", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = srv.do(http.MethodGet, "/api/navigation", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := srv.signIn("admin@demo.com")
	resp, _ = srv.do(http.MethodGet, "/api/navigation", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// signing in as someone else revokes the first token
	other := srv.signIn("intern@demo.com")
	resp, _ = srv.do(http.MethodGet, "/api/navigation", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// signing out revokes everything
	resp, _ = srv.do(http.MethodPost, "/api/auth/signout", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = srv.do(http.MethodGet, "/api/navigation", other, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// the same account signing back in starts a new session; old tokens stay dead
	fresh := srv.signIn("admin@demo.com")
	resp, _ = srv.do(http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = srv.do(http.MethodGet, "/api/admin/users", fresh, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_SignInAgainRevokesOldToken(t *testing.T) {
	srv := newTestServer(t, 0)

	first := srv.signIn("analyst@demo.com")
	second := srv.signIn("analyst@demo.com")

	resp, _ := srv.do(http.MethodGet, "/api/navigation", first, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = srv.do(http.MethodGet, "/api/navigation", second, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNavigationByRole(t *testing.T) {
	srv := newTestServer(t, 0)

	for email, want := range map[string][]string{
		"admin@demo.com":  {"chat", "analytics", "admin", "settings"},
		"intern@demo.com": {"chat", "analytics", "settings"},
	} {
		token := srv.signIn(email)
		_, data := srv.do(http.MethodGet, "/api/navigation", token, nil)
		var navResp NavigationResponse
		require.NoError(t, json.Unmarshal(data, &navResp))
		var got []string
		for _, s := range navResp.Sections {
			got = append(got, string(s.ID))
		}
		assert.Equal(t, want, got, email)
	}
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t, 0)

	token := srv.signIn("manager@demo.com")
	for _, path := range []string{"/api/admin/datasets", "/api/admin/users", "/api/admin/logs"} {
		resp, _ := srv.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}

	token = srv.signIn("admin@demo.com")
	resp, data := srv.do(http.MethodGet, "/api/admin/datasets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var datasets []mockdata.Dataset
	require.NoError(t, json.Unmarshal(data, &datasets))
	assert.Len(t, datasets, 4)

	resp, _ = srv.do(http.MethodGet, "/api/admin/logs", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyticsAndSettings(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.signIn("analyst@demo.com")

	resp, data := srv.do(http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics mockdata.Analytics
	require.NoError(t, json.Unmarshal(data, &analytics))
	assert.Len(t, analytics.QueryVolume, 7)

	resp, data = srv.do(http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings struct {
		Profile struct {
			Email string `json:"email"`
		} `json:"profile"`
		Sections []mockdata.SettingsSection `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, "analyst@demo.com", settings.Profile.Email)
	assert.Len(t, settings.Sections, 6)
}

func TestChatFlow(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.signIn("analyst@demo.com")

	resp, data := srv.do(http.MethodPost, "/api/chats", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var created struct {
		ID       string         `json:"id"`
		Messages []core.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	require.Len(t, created.Messages, 1)

	resp, data = srv.do(http.MethodPost, "/api/chats/"+created.ID+"/messages", token, PostMessageRequest{Content: "Show me sales by region"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var reply struct {
		Author       string          `json:"author"`
		ResponseType string          `json:"response_type"`
		Data         json.RawMessage `json:"response_data"`
	}
	require.NoError(t, json.Unmarshal(data, &reply))
	assert.Equal(t, "assistant", reply.Author)
	assert.Equal(t, "table", reply.ResponseType)
	assert.Contains(t, string(reply.Data), `"columns"`)

	resp, data = srv.do(http.MethodGet, "/api/chats/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// core.Message.Payload is an interface, so decode loosely
	var loose struct {
		Title    string            `json:"title"`
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &loose))
	assert.Equal(t, "Show me sales by region", loose.Title)
	assert.Len(t, loose.Messages, 3)

	resp, data = srv.do(http.MethodGet, "/api/chats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []core.Conversation
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 1)
}

func TestChatErrors(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.signIn("analyst@demo.com")

	resp, _ := srv.do(http.MethodGet, "/api/chats/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = srv.do(http.MethodPost, "/api/chats/missing/messages", token, PostMessageRequest{Content: "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, data := srv.do(http.MethodPost, "/api/chats", token, nil)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &created))

	resp, _ = srv.do(http.MethodPost, "/api/chats/"+created.ID+"/messages", token, PostMessageRequest{Content: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostMessage_Conflict(t *testing.T) {
	srv := newTestServer(t, 300*time.Millisecond)
	token := srv.signIn("analyst@demo.com")

	_, data := srv.do(http.MethodPost, "/api/chats", token, nil)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	path := "/api/chats/" + created.ID + "/messages"

	done := make(chan int, 1)
	go func() {
		b, _ := json.Marshal(PostMessageRequest{Content: "sales"})
		req, _ := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(b))
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	time.Sleep(100 * time.Millisecond)
	resp, _ := srv.do(http.MethodPost, path, token, PostMessageRequest{Content: "trend"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, http.StatusOK, <-done)
}
