package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL+"/analyze", WithHTTPClient(srv.Client()))
}

func TestAnalyzeSendsDocumentedRequest(t *testing.T) {
	var calls atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload)) {
			return
		}
		assert.Equal(t, map[string]any{"text": "  I feel nervous about my interview\n"}, payload)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emotion":"Anxious","confidence":0.91}`))
	})

	result, err := client.Analyze(context.Background(), "  I feel nervous about my interview\n")
	require.NoError(t, err)
	assert.Equal(t, emotion.Result{Emotion: emotion.Anxious, Confidence: 0.91}, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeRejectsBlankText(t *testing.T) {
	var calls atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := client.Analyze(context.Background(), text)
		require.ErrorIs(t, err, ErrEmptyReflection)
		assert.Equal(t, ValidationMessage, Message(err))
	}
	assert.Zero(t, calls.Load(), "blank text must not reach the network")
}

func TestAnalyzeServiceError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Analyze(context.Background(), "hello")
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Equal(t, "Internal Server Error", svcErr.StatusText)
	assert.Equal(t, "API Error: 500 Internal Server Error", Message(err))
	assert.Contains(t, Message(err), "500")
}

func TestAnalyzeTransportError(t *testing.T) {
	// Grab a free port and close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := NewClient("http://" + addr + "/analyze")
	_, err = client.Analyze(context.Background(), "hello")
	require.Error(t, err)

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "request", tErr.Op)
	assert.Equal(t, FallbackMessage, Message(err))
}

func TestAnalyzeMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>gateway</html>"},
		{"missing emotion", `{"confidence":0.4}`},
		{"missing confidence", `{"emotion":"Sad"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Analyze(context.Background(), "hello")
			var tErr *TransportError
			require.ErrorAs(t, err, &tErr)
			assert.Equal(t, "decode", tErr.Op)
			assert.Equal(t, FallbackMessage, Message(err))
		})
	}
}

func TestAnalyzeKeepsOutOfRangeConfidence(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"emotion":"Excited","confidence":1.5}`))
	})

	result, err := client.Analyze(context.Background(), "wow")
	require.NoError(t, err)
	assert.Equal(t, 1.5, result.Confidence)
	assert.Equal(t, 150, result.Percent())
}

func TestAnalyzeLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithLogger(zap.New(core)))
	_, err := client.Analyze(context.Background(), "hello")
	require.Error(t, err)

	entries := logs.FilterMessage("analysis failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["submission_id"])
	assert.Equal(t, srv.URL, fields["endpoint"])
}

func TestNewClientDefaults(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient("").Endpoint())
	assert.Equal(t, DefaultEndpoint, NewClient("   ").Endpoint())
	assert.Equal(t, "http://localhost:8000/analyze", NewClient("http://localhost:8000/analyze").Endpoint())
}

func TestTimeoutIndependentOfOptionOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		opts []Option
	}{
		{"timeout before client", []Option{WithTimeout(50 * time.Millisecond), WithHTTPClient(srv.Client())}},
		{"client before timeout", []Option{WithHTTPClient(srv.Client()), WithTimeout(50 * time.Millisecond)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(srv.URL, tt.opts...)

			start := time.Now()
			_, err := client.Analyze(context.Background(), "hello")

			var transportErr *TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, "request", transportErr.Op)
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, FallbackMessage, Message(err))
		})
	}
}

func TestTimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 0}

	client := NewClient("http://localhost:8000/analyze", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Zero(t, shared.Timeout)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
	assert.NotSame(t, shared, client.httpClient)
}

func TestNoTimeoutKeepsCallerClient(t *testing.T) {
	shared := &http.Client{}
	client := NewClient("", WithHTTPClient(shared))
	assert.Same(t, shared, client.httpClient)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, FallbackMessage, Message(errors.New("anything else")))
	assert.Equal(t, "API Error: 404 Not Found", Message(&ServiceError{StatusCode: 404, StatusText: "Not Found"}))
}
