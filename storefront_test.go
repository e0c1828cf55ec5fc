package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/industrialmart/storefront-go/core"
	"github.com/industrialmart/storefront-go/session"
)

func TestNewAssemblesComponents(t *testing.T) {
	s, err := New(core.WithBaseURL("https://api.example.com"))
	require.NoError(t, err)

	assert.NotNil(t, s.Config)
	assert.NotNil(t, s.Client)
	assert.NotNil(t, s.Client.Auth)
	assert.NotNil(t, s.Client.Products)
	assert.NotNil(t, s.Client.Inquiries)
	assert.NotNil(t, s.Client.Users)
	assert.NotNil(t, s.Client.Debug)
	assert.NotNil(t, s.Fallback)
	assert.NotNil(t, s.Session)
	assert.NotNil(t, s.Logger)
	assert.Equal(t, session.StateUnknown, s.Session.State())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(core.WithRetry(0, time.Second))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestShutdownWithoutTelemetry(t *testing.T) {
	s, err := New(core.WithBaseURL("https://api.example.com"))
	require.NoError(t, err)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestExpiredSessionSignsOutAssembledStack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/status":
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.com"}}`))
		default:
			// The backend session lapsed; every other request is rejected
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	s, err := New(
		core.WithBaseURL(server.URL),
		core.WithRetry(2, time.Millisecond),
	)
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, session.StateAuthenticated, s.Session.Start(ctx))

	// The profile read degrades to nil, but the classified rejection still
	// reaches the session manager
	assert.Nil(t, s.Client.Users.GetProfile(ctx, "u1"))
	assert.Equal(t, session.StateAnonymous, s.Session.State())
	assert.Nil(t, s.Session.User())
}

func TestAssembledStackEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/status":
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.com"}}`))
		case "/products":
			_, _ = w.Write([]byte(`[{"id":"1","name":"PVC Pipe","category":"Pipes","price":10}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s, err := New(
		core.WithBaseURL(server.URL),
		core.WithRetry(2, time.Millisecond),
	)
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, session.StateAuthenticated, s.Session.Start(ctx))
	require.NotNil(t, s.Session.User())
	assert.Equal(t, "u1", s.Session.User().ID)

	products := s.Client.Products.GetAll(ctx)
	require.Len(t, products, 1)
	assert.Equal(t, Category("pipes"), products[0].Category)
}
