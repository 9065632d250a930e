package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suar-net/usage-pricing-be/internal/model"
)

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestEndToEnd_LoginThenRecordEvent(t *testing.T) {
	env := newTestEnv(t)

	resp := env.login(t, "alice", "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[model.DTOLoginResponse](t, resp)
	assert.Equal(t, "bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)

	resp = env.do(t, http.MethodPost, "/event", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	event := decode[model.Event](t, resp)
	assert.Equal(t, 1, event.ID)
	assert.Equal(t, "ext-alice", event.UserID)
	assert.Equal(t, "/event", event.Endpoint)
	assert.Equal(t, http.StatusOK, event.StatusCode)
	assert.GreaterOrEqual(t, event.DurationMs, 0)
	assert.False(t, event.ExecutionTime.IsZero())
	require.Len(t, env.events.events, 1)

	resp = env.do(t, http.MethodPost, "/event", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

	env.clock.Advance(tokenTTL)
	resp = env.do(t, http.MethodPost, "/event", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

	assert.Len(t, env.events.events, 1)
}

func TestEvent_ResponseCarriesAllFields(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken

	resp := env.do(t, http.MethodPost, "/event", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := decode[map[string]any](t, resp)
	for _, key := range []string{"id", "user_id", "endpoint", "execution_time", "duration_ms", "response_size_bytes", "status_code"} {
		assert.Contains(t, raw, key)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	unknown := env.login(t, "mallory", "secret")
	wrong := env.login(t, "alice", "nope")

	for _, resp := range []*http.Response{unknown, wrong} {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	}

	unknownBody, err := io.ReadAll(unknown.Body)
	require.NoError(t, err)
	wrongBody, err := io.ReadAll(wrong.Body)
	require.NoError(t, err)
	assert.Equal(t, string(unknownBody), string(wrongBody))
	assert.Contains(t, string(unknownBody), invalidCredentialsMessage)
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.login(t, "", "secret")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.login(t, "alice", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_RejectsForeignGrantType(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"username": {"alice"}, "password": {"secret"}, "grant_type": {"client_credentials"}}
	resp, err := http.Post(env.server.URL+"/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_RepositoryFailureIsServerError(t *testing.T) {
	env := newTestEnv(t)
	env.users.err = errBoom

	resp := env.login(t, "alice", "secret")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.NotContains(t, body["error"], "boom")
}

func TestEvent_ExplicitUsageBody(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken

	body := `{"endpoint":"/v1/quotes","duration_ms":87,"response_size_bytes":5120,"status_code":404}`
	resp := env.do(t, http.MethodPost, "/event", token, strings.NewReader(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	event := decode[model.Event](t, resp)
	assert.Equal(t, "/v1/quotes", event.Endpoint)
	assert.Equal(t, 87, event.DurationMs)
	assert.Equal(t, 5120, event.ResponseSizeBytes)
	assert.Equal(t, 404, event.StatusCode)
}

func TestEvent_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"endpoint":`},
		{name: "negative duration", body: `{"duration_ms":-3}`},
		{name: "status out of range", body: `{"status_code":42}`},
		{name: "relative endpoint", body: `{"endpoint":"quotes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/event", token, strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, env.events.events)
}

func TestEvent_StorageFailureIsServerError(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken
	env.events.err = errBoom

	resp := env.do(t, http.MethodPost, "/event", token, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestEvents_ListOwnEvents(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken

	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/event", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/events?limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]model.Event](t, resp)
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].ID)

	resp = env.do(t, http.MethodGet, "/events?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	token := decode[model.DTOLoginResponse](t, env.login(t, "alice", "secret")).AccessToken
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/event", token, nil).StatusCode)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "usage_events_recorded_total 1")
	assert.Contains(t, string(body), `auth_logins_total{result="success"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/event", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
