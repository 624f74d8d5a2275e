package callapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	assert.Nil(t, NewClient("", "tok"))
	assert.Nil(t, NewClient("not a url", "tok"))
	c := NewClient(" https://api.example.com/v1/ ", " tok ")
	require.NotNil(t, c)
	assert.Equal(t, "https://api.example.com/v1", c.baseURL)
	assert.Equal(t, "tok", c.token)
	assert.Equal(t, "api.example.com", c.Host())
}

// callServer serves total synthetic calls under the given envelope.
func callServer(t *testing.T, total int, withTotal bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		calls := []map[string]any{}
		for i := (page - 1) * limit; i < page*limit && i < total; i++ {
			calls = append(calls, map[string]any{"call_id": fmt.Sprintf("c%d", i), "duration_ms": i * 1000})
		}
		body := map[string]any{"calls": calls}
		if withTotal {
			body["total"] = total
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestFetchCalls_WithTotal(t *testing.T) {
	srv := callServer(t, 23, true)
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	p, err := c.FetchCalls(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Len(t, p.Calls, 3)
	assert.Equal(t, "c20", p.Calls[0].CallID)
	assert.Equal(t, 23, p.Total)
	assert.Equal(t, 3, p.TotalPages())
	assert.False(t, p.HasMore)
}

func TestFetchCalls_WithoutTotal(t *testing.T) {
	srv := callServer(t, 20, false)
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	p, err := c.FetchCalls(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.True(t, p.HasMore, "a full page may have a successor")
	assert.Equal(t, 21, p.Total)

	p, err = c.FetchCalls(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.False(t, p.HasMore)
	assert.Empty(t, p.Calls)
}

func TestFetchAll(t *testing.T) {
	srv := callServer(t, 23, true)
	defer srv.Close()

	all, err := NewClient(srv.URL, "secret").FetchAll(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, all, 23)
	assert.Equal(t, "c22", all[22].CallID)
}

func TestFetchCalls_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "secret").FetchCalls(context.Background(), 1, 10)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL, "secret").FetchCalls(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchCalls_BareArrayAndBadPayloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a"},42,{"id":"b"}]`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, "").FetchCalls(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, p.Calls, 2)
	assert.Equal(t, 1, p.ParseErrors)
	assert.False(t, p.HasMore)
}

func TestFetchCalls_RejectsBadLimit(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.FetchCalls(context.Background(), 1, 0)
	assert.Error(t, err)
}
