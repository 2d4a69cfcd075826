package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appabyss/appabyss/pkg/api"
)

func TestClient_Register_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gopher", req.Username)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Register(context.Background(), api.RegisterRequest{
		Email:    "gopher@example.com",
		Username: "gopher",
		Password: "Passw0rd!",
	})
	assert.NoError(t, err)
}

func TestClient_Register_ValidationErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ValidationErrors{
			"Username":          {"Username is required"},
			"DuplicateUserName": {"Username 'gopher' is already taken."},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Register(context.Background(), api.RegisterRequest{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, []string{"Username is required"}, reqErr.Fields["Username"])
	assert.Contains(t, reqErr.Error(), "Username 'gopher' is already taken.")
}

func TestClient_Login_Success(t *testing.T) {
	expiration := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gopher", req.UserName)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			Token:      "jwt-token",
			Expiration: expiration,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), api.LoginRequest{
		UserName: "gopher",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.True(t, expiration.Equal(resp.Expiration))
}

func TestClient_Login_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Invalid username or password"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), api.LoginRequest{
		UserName: "gopher",
		Password: "wrong",
	})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.Equal(t, "Invalid username or password", reqErr.Message)
}

func TestClient_BearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("jwt-token")

	lists, err := client.ListLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestClient_ListSoftware_NoTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Каталог читается без авторизации
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"vim","version":"9.1"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	software, err := client.ListSoftware(context.Background())
	require.NoError(t, err)
	require.Len(t, software, 1)
	assert.Equal(t, "vim", software[0].Name)
}

func TestClient_EmptyResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("jwt-token")

	assert.NoError(t, client.DeleteList(context.Background(), 1))
	assert.NoError(t, client.AddSoftware(context.Background(), 1, 2))
	assert.NoError(t, client.RemoveSoftware(context.Background(), 1, 2))
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Register(context.Background(), api.RegisterRequest{
		Email:    "gopher@example.com",
		Username: "gopher",
		Password: "Passw0rd!",
	})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}
