package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloxkit/rbx-client/internal/auth"
	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/users/1", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]interface{}{"id": 1, "name": "Roblox"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session)

		req := &internalhttp.Request{
			Method: "GET",
			Path:   "/v1/users/1",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "Roblox")
	})

	t.Run("nil request", func(t *testing.T) {
		t.Parallel()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient("http://localhost", session)

		_, err := client.Do(context.Background(), nil)
		require.ErrorIs(t, err, roblox.ErrNilRequest)
	})

	t.Run("session cookie attached", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(".ROBLOSECURITY")
			require.NoError(t, err)
			assert.Equal(t, "secret-cookie", cookie.Value)

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		session := auth.NewMemorySession("secret-cookie")
		client := internalhttp.NewClient(server.URL, session)

		resp, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "50", request.URL.Query().Get("limit"))
			assert.Equal(t, "abc", request.URL.Query().Get("cursor"))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session)

		params := roblox.NewQueryParams().WithLimit(50).WithCursor("abc")

		req := &internalhttp.Request{
			Method: "GET",
			Path:   "/v1/users/1/friends",
			Query:  params.ToValues(),
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("error envelope", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"errors":[{"code":1,"message":"The user is invalid."}]}`))
		}))
		defer server.Close()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session)

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.Error(t, err)

		respErr, ok := roblox.AsResponseError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
		assert.True(t, respErr.HasCode(1))
		assert.Equal(t, "The user is invalid.", respErr.FirstError().Message)
	})

	t.Run("non-JSON error body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("Bad Gateway"))
		}))
		defer server.Close()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session)

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.Error(t, err)

		respErr, ok := roblox.AsResponseError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
		assert.Equal(t, "Bad Gateway", respErr.FirstError().Message)
	})
}

func TestClient_CSRFChallenge(t *testing.T) {
	t.Parallel()
	t.Run("token adopted and request retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if calls.Add(1) == 1 {
				writer.Header().Set("X-Csrf-Token", "fresh-token")
				writer.WriteHeader(http.StatusForbidden)

				return
			}

			assert.Equal(t, "fresh-token", request.Header.Get("X-Csrf-Token"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		session := auth.NewMemorySession("cookie")
		client := internalhttp.NewClient(server.URL, session)

		resp, err := client.Do(context.Background(), &internalhttp.Request{Method: "POST", Path: "/v1/things"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, "fresh-token", session.CSRFToken())
	})

	t.Run("challenge retried at most once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
			writer.Header().Set("X-Csrf-Token", "rotating-token")
			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		session := auth.NewMemorySession("cookie")
		client := internalhttp.NewClient(server.URL, session)

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "POST", Path: "/v1/things"})
		require.Error(t, err)

		respErr, ok := roblox.AsResponseError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, respErr.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("plain 403 without token is not retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		session := auth.NewMemorySession("cookie")
		client := internalhttp.NewClient(server.URL, session)

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestClient_Caching(t *testing.T) {
	t.Parallel()
	t.Run("repeated GET served from cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
			_ = json.NewEncoder(writer).Encode(map[string]string{"name": "cached"})
		}))
		defer server.Close()

		cache := roblox.NewCacheManager(roblox.NewMemoryCache(10, 0), roblox.DefaultCachingPolicy())
		defer func() { _ = cache.Close() }()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session, internalhttp.WithCacheManager(cache))

		var first, second map[string]string

		require.NoError(t, client.Get(context.Background(), "/v1/groups/1", nil, &first))
		require.NoError(t, client.Get(context.Background(), "/v1/groups/1", nil, &second))

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, first, second)

		stats := cache.Stats()
		assert.Equal(t, int64(1), stats.Hits)
	})

	t.Run("POST bypasses cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cache := roblox.NewCacheManager(roblox.NewMemoryCache(10, 0), roblox.DefaultCachingPolicy())
		defer func() { _ = cache.Close() }()

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session, internalhttp.WithCacheManager(cache))

		require.NoError(t, client.Post(context.Background(), "/v1/things", nil, nil))
		require.NoError(t, client.Post(context.Background(), "/v1/things", nil, nil))

		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()
	t.Run("request interceptor headers reach the wire", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "trace-123", request.Header.Get("X-Trace-Id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := roblox.NewInterceptorChain()
		chain.AddRequestInterceptor(roblox.NewHeaderInterceptor(map[string]string{"X-Trace-Id": "trace-123"}))

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session, internalhttp.WithInterceptors(chain))

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.NoError(t, err)
	})

	t.Run("request interceptor error aborts the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			t.Error("request should not reach the server")
		}))
		defer server.Close()

		wantErr := errors.New("rejected")

		chain := roblox.NewInterceptorChain()
		chain.AddRequestInterceptor(roblox.RequestInterceptorFunc(func(ctx context.Context, info *roblox.RequestInfo) error {
			return wantErr
		}))

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session, internalhttp.WithInterceptors(chain))

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("response interceptor observes status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var observed atomic.Int32

		chain := roblox.NewInterceptorChain()
		chain.AddResponseInterceptor(roblox.ResponseInterceptorFunc(func(ctx context.Context, info *roblox.ResponseInfo) error {
			observed.Store(int32(info.StatusCode))

			return nil
		}))

		session := auth.NewMemorySession("")
		client := internalhttp.NewClient(server.URL, session, internalhttp.WithInterceptors(chain))

		_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
		require.NoError(t, err)
		assert.Equal(t, int32(http.StatusOK), observed.Load())
	})
}

func TestClient_Retries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if calls.Add(1) == 1 {
			writer.WriteHeader(http.StatusInternalServerError)

			return
		}

		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session := auth.NewMemorySession("")
	client := internalhttp.NewClient(server.URL, session,
		internalhttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond, time.Second))

	resp, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &MockLogger{}
	session := auth.NewMemorySession("")
	client := internalhttp.NewClient(server.URL, session,
		internalhttp.WithLogger(logger), internalhttp.WithDebug(true))

	_, err := client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/"})
	require.NoError(t, err)
	assert.NotEmpty(t, logger.logs)
}
