package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	return NewClient(ts.URL+"/", 5*time.Second), ts
}

func TestClient_Login(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ada@example.com", r.PostFormValue("username"))
		assert.Equal(t, "hunter2", r.PostFormValue("password"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	}))
	defer ts.Close()

	token, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestClient_Login_BackendError(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer ts.Close()

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	assert.EqualError(t, err, "Incorrect email or password")
	assert.True(t, IsUnauthorized(err))
}

func TestClient_Login_MissingToken(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer ts.Close()

	_, err := client.Login(context.Background(), "ada@example.com", "pw")
	assert.Error(t, err)
}

func TestClient_CurrentUser(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          7,
			"email":       "ada@example.com",
			"full_name":   "Ada Lovelace",
			"is_verified": true,
		})
	}))
	defer ts.Close()

	user, err := client.CurrentUser(context.Background(), "tok-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.FullName)
	assert.True(t, user.Verified)
}

func TestClient_CurrentUser_Rejected(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer ts.Close()

	_, err := client.CurrentUser(context.Background(), "stale")
	assert.True(t, IsUnauthorized(err))
}

func TestClient_Register(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])
		assert.Equal(t, "Ada Lovelace", body["full_name"])
		json.NewEncoder(w).Encode(map[string]string{"message": "Registration successful."})
	}))
	defer ts.Close()

	msg, err := client.Register(context.Background(), "ada@example.com", "hunter2", "Ada Lovelace")
	assert.NoError(t, err)
	assert.Equal(t, "Registration successful.", msg)
}

func TestClient_PasswordResetEndpoints(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forgot-password":
			json.NewEncoder(w).Encode(map[string]string{"message": "If email exists, a reset token has been sent."})
		case "/reset-password":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "reset-tok", body["token"])
			assert.Equal(t, "newpw", body["new_password"])
			json.NewEncoder(w).Encode(map[string]string{"message": "Password reset successfully"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	msg, err := client.ForgotPassword(context.Background(), "ada@example.com")
	assert.NoError(t, err)
	assert.Contains(t, msg, "reset token")

	msg, err = client.ResetPassword(context.Background(), "reset-tok", "newpw")
	assert.NoError(t, err)
	assert.Equal(t, "Password reset successfully", msg)
}

func TestClient_ErrorDetailFallsBackToStatusText(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>gateway</html>", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := client.ForgotPassword(context.Background(), "ada@example.com")
	assert.EqualError(t, err, "Bad Gateway")
}

func TestClient_OAuthURL(t *testing.T) {
	client := NewClient("http://localhost:8000/", time.Second)
	assert.Equal(t, "http://localhost:8000/login/google", client.OAuthURL("google"))
	assert.Equal(t, "http://localhost:8000/login/github", client.OAuthURL("github"))
}
