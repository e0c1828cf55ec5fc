package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginReturnsUser(t *testing.T) {
	var gotCreds Credentials
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&gotCreds)
		_, _ = w.Write([]byte(`{"user":{"id":"u1","name":"Aisha","email":"a@b.com"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	user, err := c.Auth.Login(context.Background(), "a@b.com", "secret")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, Credentials{Email: "a@b.com", Password: "secret"}, gotCreds)
}

func TestRegisterReturnsUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		_, _ = w.Write([]byte(`{"user":{"id":"u2","email":"new@b.com"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	user, err := c.Auth.Register(context.Background(), Registration{
		Name: "New User", Email: "new@b.com", Password: "secret",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u2", user.ID)
}

func TestStatusNoSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	user, err := c.Auth.Status(context.Background())

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStatusActiveSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.com"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	user, err := c.Auth.Status(context.Background())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}

func TestCheckEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/check-email", r.URL.Path)
		if r.URL.Query().Get("email") == "taken@b.com" {
			_, _ = w.Write([]byte(`{"exists":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"exists":false}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	exists, err := c.Auth.CheckEmail(ctx, "taken@b.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.Auth.CheckEmail(ctx, "free@b.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestValidatePassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body["password"]) < 8 {
			_, _ = w.Write([]byte(`{"valid":false,"message":"password too short"}`))
			return
		}
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	valid, msg, err := c.Auth.ValidatePassword(ctx, "short")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, "password too short", msg)

	valid, msg, err = c.Auth.ValidatePassword(ctx, "long enough password")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, msg)
}

func TestLogoutAndPasswordResetFlow(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	require.NoError(t, c.Auth.Logout(ctx))
	require.NoError(t, c.Auth.ForgotPassword(ctx, "a@b.com"))
	require.NoError(t, c.Auth.ResetPassword(ctx, "tok", "newpassword"))

	assert.Equal(t, []string{"/auth/logout", "/auth/forgot-password", "/auth/reset-password"}, paths)
}

func TestInquiryCreateAndList(t *testing.T) {
	var created Inquiry
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inquiries":
			require.Equal(t, http.MethodPost, r.Method)
			_ = json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		case "/user/inquiries":
			_, _ = w.Write([]byte(`[{"subject":"Bulk order","message":"Need 200 units"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	err := c.Inquiries.Create(ctx, Inquiry{
		Name: "Aisha", Email: "a@b.com", Subject: "Bulk order", Message: "Need 200 units",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bulk order", created.Subject)

	inquiries, err := c.Inquiries.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, inquiries, 1)
	assert.Equal(t, "Need 200 units", inquiries[0].Message)
}

func TestInquiryCreateErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	err := c.Inquiries.Create(context.Background(), Inquiry{Subject: "x"})
	assert.Error(t, err, "write failures must reach the caller")
}

func TestUserProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"u1","name":"Aisha","email":"a@b.com"}`))
		case http.MethodPut:
			var update User
			_ = json.NewDecoder(r.Body).Decode(&update)
			_ = json.NewEncoder(w).Encode(update)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	profile := c.Users.GetProfile(ctx, "u1")
	require.NotNil(t, profile)
	assert.Equal(t, "Aisha", profile.Name)

	updated, err := c.Users.UpdateProfile(ctx, "u1", User{ID: "u1", Name: "Aisha K", Email: "a@b.com"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Aisha K", updated.Name)
}

func TestUserProfileDegradesToNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	assert.Nil(t, c.Users.GetProfile(context.Background(), "missing"))
}

func TestDebugReportsNeverFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/debug/session":
			_, _ = w.Write([]byte(`{"session":"active"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	ok := c.Debug.Session(ctx)
	assert.True(t, ok.OK)
	assert.JSONEq(t, `{"session":"active"}`, string(ok.Data))

	failed := c.Debug.DB(ctx)
	assert.False(t, failed.OK)
	assert.NotEmpty(t, failed.Error)
}

func TestHealthAndPing(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	assert.True(t, c.Health(ctx).OK)
	assert.True(t, c.Ping(ctx).OK)
	assert.Equal(t, []string{"/health", "/test"}, paths)
}
