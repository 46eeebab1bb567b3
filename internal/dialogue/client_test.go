package dialogue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		url:  srv.URL + "/v1/chat/completions",
		cfg:  &Config{Model: "test-model", MaxTokens: 64},
		http: srv.Client(),
	}
}

func completionReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestChatReturnsReply(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		completionReply("  Well met, traveler.  ")(w, r)
	}))
	defer srv.Close()

	c := testClient(srv)
	reply := c.Chat(context.Background(), []Message{{Role: "user", Content: "hello"}})

	if reply != "Well met, traveler." {
		t.Fatalf("expected the trimmed reply, got %q", reply)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("expected the configured model sent, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "hello" {
		t.Fatalf("expected the transcript sent, got %v", gotReq.Messages)
	}
}

func TestChatFallbacks(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
		exp     string
	}{
		"server error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			exp: fallbackStatus,
		},
		"garbage body": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			exp: fallbackDecode,
		},
		"no choices": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
			exp: FallbackLine,
		},
		"empty content": {
			handler: completionReply("   "),
			exp:     FallbackLine,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := testClient(srv)
			if got := c.Chat(context.Background(), nil); got != tt.exp {
				t.Fatalf("expected %q, got %q", tt.exp, got)
			}
		})
	}
}

func TestChatUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	c := &Client{
		url:  srv.URL + "/v1/chat/completions",
		cfg:  &Config{Model: "test-model"},
		http: &http.Client{},
	}

	if got := c.Chat(context.Background(), nil); got != fallbackUnavailable {
		t.Fatalf("expected %q, got %q", fallbackUnavailable, got)
	}
}

func TestChatTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := &Client{
		url:  srv.URL + "/v1/chat/completions",
		cfg:  &Config{Model: "test-model"},
		http: &http.Client{Timeout: 50 * time.Millisecond},
	}

	if got := c.Chat(context.Background(), nil); got != fallbackTimeout {
		t.Fatalf("expected %q, got %q", fallbackTimeout, got)
	}
}
