package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	sapihttp "github.com/soundwave-io/sapi-client/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenProvider for testing.
type MockTokenProvider struct {
	token string
	err   error
}

func (m *MockTokenProvider) Token(ctx context.Context) (string, error) {
	return m.token, m.err
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) log(level, msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.log("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.log("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.log("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.log("error", msg, fields) }

func fastRetry(max int) sapihttp.Option {
	return sapihttp.WithRetryConfig(max, 10*time.Millisecond, 50*time.Millisecond)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/tracks", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			_ = json.NewEncoder(writer).Encode(map[string]string{"id": "42", "title": "test-track"})
		}))
		defer server.Close()

		client := sapihttp.NewClient(&MockTokenProvider{token: "test-token"}, fastRetry(1))

		resp, err := client.Do(context.Background(), &sapihttp.Request{
			Method: "GET",
			URL:    server.URL + "/tracks",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		require.NoError(t, json.Unmarshal(resp.Body, &result))
		assert.Equal(t, "test-track", result["title"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "2", request.URL.Query().Get("page"))
			assert.Equal(t, "existing", request.URL.Query().Get("keep"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(1))

		resp, err := client.Do(context.Background(), &sapihttp.Request{
			Method: "GET",
			URL:    server.URL + "/tracks?keep=existing",
			Query:  url.Values{"page": []string{"2"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with URL-encoded body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

			require.NoError(t, request.ParseForm())
			assert.Equal(t, "test-track", request.PostForm.Get("title"))

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(1))

		resp, err := client.Do(context.Background(), &sapihttp.Request{
			Method: "POST",
			URL:    server.URL + "/tracks",
			Body:   url.Values{"title": []string{"test-track"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("non-2xx response is not an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{"error_message": "404 - Not Found"})
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(1))

		resp, err := client.Do(context.Background(), &sapihttp.Request{
			Method: "GET",
			URL:    server.URL + "/tracks/invalid",
		})
		require.NoError(t, err, "status interpretation belongs to the caller")
		assert.Equal(t, 404, resp.StatusCode)
		assert.NotEmpty(t, resp.Body)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(1))

		resp, err := client.Do(context.Background(), &sapihttp.Request{
			Method:  "GET",
			URL:     server.URL,
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("token provider failure aborts the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			t.Error("request must not be sent without a token")
		}))
		defer server.Close()

		client := sapihttp.NewClient(&MockTokenProvider{err: assert.AnError}, fastRetry(1))

		_, err := client.Do(context.Background(), &sapihttp.Request{Method: "GET", URL: server.URL})
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := sapihttp.NewClient(nil, fastRetry(1), sapihttp.WithLogger(logger), sapihttp.WithDebug(true))

		_, err := client.Do(context.Background(), &sapihttp.Request{
			Method: "GET",
			URL:    server.URL + "/tracks?client_id=secret-id",
		})
		require.NoError(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

		fields, ok := logger.logs[0]["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, fields["url"], "secret-id", "credentials must be redacted in logs")
	})
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*sapihttp.Client, context.Context, string) (*sapihttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *sapihttp.Client, ctx context.Context, u string) (*sapihttp.Response, error) {
				return c.Get(ctx, u, nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *sapihttp.Client, ctx context.Context, u string) (*sapihttp.Response, error) {
				return c.Post(ctx, u, url.Values{"key": []string{"value"}})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *sapihttp.Client, ctx context.Context, u string) (*sapihttp.Response, error) {
				return c.Put(ctx, u, url.Values{"key": []string{"value"}})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *sapihttp.Client, ctx context.Context, u string) (*sapihttp.Response, error) {
				return c.Delete(ctx, u, nil)
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := sapihttp.NewClient(nil, fastRetry(1))
			resp, err := testCase.fn(client, context.Background(), server.URL+"/test")
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(3))

		resp, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(3))

		resp, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(3))

		resp, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("exhausted retries hand back the final response", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := sapihttp.NewClient(nil, fastRetry(2))

		resp, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})
}
