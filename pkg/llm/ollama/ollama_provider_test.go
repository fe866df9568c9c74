package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"healthmesh-be/pkg/llm"
)

func newTestServer(t *testing.T, capture *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   "test",
			Message: ollamaMessage{Role: "assistant", Content: `{"ok": true}`},
			Done:    true,
		})
	}))
}

func TestChatRequestsJSONFormatWhenAsked(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, &captured)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "system", Content: "triage"}, {Role: "user", Content: "assess"}},
		llm.WithJSONOutput())
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp != `{"ok": true}` {
		t.Errorf("response = %q", resp)
	}
	if captured["format"] != "json" {
		t.Errorf("format = %v, want json", captured["format"])
	}
}

func TestChatOmitsFormatByDefault(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, &captured)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	if _, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, present := captured["format"]; present {
		t.Errorf("format should be omitted when JSON output is not requested, got %v", captured["format"])
	}
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, &captured)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	if _, err := p.Chat(context.Background(), []llm.Message{{Role: "model", Content: "earlier answer"}}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	msgs, ok := captured["messages"].([]interface{})
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v", captured["messages"])
	}
	if role := msgs[0].(map[string]interface{})["role"]; role != "assistant" {
		t.Errorf("role = %v, want assistant", role)
	}
}
