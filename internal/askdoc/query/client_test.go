package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) SessionID() string { return fmt.Sprintf("session-%d", s.n.Add(1)) }
func (s *sequenceIDs) UserID() string    { return fmt.Sprintf("user-%d", s.n.Add(1)) }

func TestSend_Success(t *testing.T) {
	var got Request
	var gotMethod, gotPath, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"response": "Chapter 3 covers X."})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithIDGenerator(&sequenceIDs{}))
	reply, err := client.Send(context.Background(), "What is chapter 3 about?")
	require.NoError(t, err)

	assert.Equal(t, "Chapter 3 covers X.", reply)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/query", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "What is chapter 3 about?", got.Query)
	assert.Equal(t, "session-1", got.Metadata.SessionID)
	assert.Equal(t, "user-2", got.Metadata.UserID)
}

func TestSend_RawBodyShape(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"response":"ok"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Send(context.Background(), "  keep my spaces  ")
	require.NoError(t, err)

	assert.Equal(t, "  keep my spaces  ", raw["query"])
	metadata, ok := raw["metadata"].(map[string]any)
	require.True(t, ok, "metadata must be an object")
	assert.Contains(t, metadata, "session_id")
	assert.Contains(t, metadata, "user_id")
	assert.Len(t, raw, 2)
}

func TestSend_FreshCorrelationIDsPerCall(t *testing.T) {
	var seen []Metadata
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		seen = append(seen, req.Metadata)
		fmt.Fprint(w, `{"response":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	for i := 0; i < 3; i++ {
		_, err := client.Send(context.Background(), "hi")
		require.NoError(t, err)
	}

	require.Len(t, seen, 3)
	sessions := map[string]bool{}
	for _, m := range seen {
		assert.Regexp(t, `^session-[0-9a-f-]{36}$`, m.SessionID)
		assert.Regexp(t, `^user-[0-9a-f-]{36}$`, m.UserID)
		sessions[m.SessionID] = true
	}
	assert.Len(t, sessions, 3)
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantStatus int
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"detail":"boom"}`,
			wantKind:   KindProtocol,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "bad request",
			status:     http.StatusBadRequest,
			body:       `{"error_code":"INVALID_QUERY"}`,
			wantKind:   KindProtocol,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not json",
			status:     http.StatusOK,
			body:       `<html>oops</html>`,
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing response field",
			status:     http.StatusOK,
			body:       `{"sources":[]}`,
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
		{
			name:       "null body",
			status:     http.StatusOK,
			body:       `null`,
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
		{
			name:       "response wrong type",
			status:     http.StatusOK,
			body:       `{"response":42}`,
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			reply, err := NewClient(server.URL).Send(context.Background(), "hi")
			require.Error(t, err)
			assert.Empty(t, reply)

			var qerr *Error
			require.ErrorAs(t, err, &qerr)
			assert.Equal(t, tt.wantKind, qerr.Kind)
			assert.Equal(t, tt.wantStatus, qerr.StatusCode)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestSend_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestSend_EmptyResponseIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":""}`)
	}))
	defer server.Close()

	reply, err := NewClient(server.URL).Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestAsk_Sources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"response": "AI is a field.",
			"sources": [
				{"title": "Intro", "url": "https://example.com/intro", "content": "..."},
				{"title": "Intro again", "url": "https://example.com/intro"},
				{"url": "https://example.com/ch2"}
			],
			"metadata": {"query_length": 5},
			"timestamp": 1678886400.0
		}`)
	}))
	defer server.Close()

	resp, err := NewClient(server.URL + "/").Ask(context.Background(), "what is ai")
	require.NoError(t, err)

	assert.Equal(t, "AI is a field.", resp.Text())
	assert.Len(t, resp.Sources, 3)
	assert.Equal(t, 1678886400.0, resp.Timestamp)
	assert.Equal(t,
		"[1] Intro - https://example.com/intro\n[2] Source - https://example.com/ch2",
		FormatSources(resp.Sources))
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantHealthy bool
		wantErr     bool
	}{
		{"healthy", http.StatusOK, `{"status":"healthy","message":"ready"}`, true, false},
		{"unhealthy 503", http.StatusServiceUnavailable, `{"status":"unhealthy","error":"agent missing"}`, false, true},
		{"unhealthy 200", http.StatusOK, `{"status":"unhealthy"}`, false, false},
		{"garbage", http.StatusOK, `nope`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			status, err := NewClient(server.URL).Health(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantHealthy, status.Healthy())
		})
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindProtocol, StatusCode: 500, Message: "backend returned error", Cause: fmt.Errorf("boom")}
	assert.Equal(t, "backend returned error (status 500): boom", err.Error())
	assert.Equal(t, "protocol", KindProtocol.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "malformed_response", KindMalformed.String())
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("plain")))
}
