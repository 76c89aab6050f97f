package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekverified/app-backend/services"
	"github.com/ekverified/app-backend/store"
)

func newLoginHandler(t *testing.T) *LoginHandler {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	authService := services.NewAuthService(fs)

	_, err = authService.Register(context.Background(), services.RegisterRequest{
		Name:  "Alice",
		Email: "alice@x.com",
		Pin:   "1234",
	})
	require.NoError(t, err)

	return NewLoginHandler(authService)
}

func postAuth(t *testing.T, h *LoginHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	h := newLoginHandler(t)

	w := postAuth(t, h, map[string]string{"email": "alice@x.com", "pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.Empty(t, resp.User.HashedPin)
}

func TestLoginWrongPin(t *testing.T) {
	h := newLoginHandler(t)

	w := postAuth(t, h, map[string]string{"email": "alice@x.com", "pin": "9999"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestLoginMalformedBody(t *testing.T) {
	h := newLoginHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	h.Login(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
