package devtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) (*Client, int) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	c := NewClient(time.Second)
	c.host = u.Hostname()
	return c, port
}

func TestFirstPage_ReturnsFirstEntry(t *testing.T) {
	c, port := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"A1","type":"page","title":"The Final Burger","url":"http://localhost:8080/#/home"},
			{"id":"B2","type":"service_worker","title":"sw","url":"http://localhost:8080/sw.js"}
		]`))
	})

	page, ok, err := c.FirstPage(context.Background(), port)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Page{ID: "A1", Type: "page", Title: "The Final Burger", URL: "http://localhost:8080/#/home"}, page)

	pages, err := c.Pages(context.Background(), port)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestFirstPage_EmptyList(t *testing.T) {
	c, port := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, ok, err := c.FirstPage(context.Background(), port)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirstPage_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"malformed payload", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title":`))
		}},
		{"object instead of list", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title":"x"}`))
		}},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, port := serve(t, tt.handler)
			_, ok, err := c.FirstPage(context.Background(), port)
			require.Error(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFirstPage_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, port := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
	})
	defer close(release)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, ok, err := c.FirstPage(context.Background(), port)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestFirstPage_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u, _ := url.Parse(srv.URL)
	port, _ := strconv.Atoi(u.Port())
	srv.Close()

	c := NewClient(0)
	c.host = u.Hostname()
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	_, ok, err := c.FirstPage(context.Background(), port)
	require.Error(t, err)
	assert.False(t, ok)
}
