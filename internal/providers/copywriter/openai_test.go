package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"covergen/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func sampleProduct() domain.Product {
	return domain.Product{
		ProductID:    "P001",
		Name:         "云朵助眠枕",
		Category:     "家居",
		Price:        "199",
		Features:     []string{"慢回弹", "透气"},
		SellingPoint: "一夜好眠",
		Tone:         "温馨治愈",
	}
}

func chatCompletionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "ali/qwen3-max",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestOpenAIWriterParsesCopy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "ali/qwen3-max" {
			t.Fatalf("model = %v", req["model"])
		}
		if req["temperature"] != 0.7 {
			t.Fatalf("temperature = %v", req["temperature"])
		}
		format, _ := req["response_format"].(map[string]any)
		if format["type"] != "json_object" {
			t.Fatalf("response_format = %v", req["response_format"])
		}
		messages, _ := req["messages"].([]any)
		if len(messages) != 2 {
			t.Fatalf("messages = %d, want 2", len(messages))
		}
		user, _ := messages[1].(map[string]any)
		if content, _ := user["content"].(string); !strings.Contains(content, "云朵助眠枕") || !strings.Contains(content, "慢回弹、透气") {
			t.Fatalf("user prompt = %q", content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatCompletionBody(t, "```json\n{\"cover_title\":\"深睡神器\",\"ui_features\":[\"云朵般的睡眠\",\" 慢回弹 \",\"\"],\"title\":\"睡个好觉✨\",\"content\":\"姐妹们绝了\",\"tags\":[\"#睡眠神器\",\"好物\",\"好物\"]}\n```"))
	}))
	defer ts.Close()

	writer := NewOpenAIWriter(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL})
	out, err := writer.Write(context.Background(), sampleProduct())
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if out.Provider != openAIProviderName {
		t.Fatalf("provider = %q", out.Provider)
	}
	if out.CoverTitle != "深睡神器" || out.Title != "睡个好觉✨" || out.Content != "姐妹们绝了" {
		t.Fatalf("unexpected copy: %#v", out)
	}
	if len(out.UIFeatures) != 2 || out.UIFeatures[1] != "慢回弹" {
		t.Fatalf("features = %#v", out.UIFeatures)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "睡眠神器" {
		t.Fatalf("tags = %#v", out.Tags)
	}
}

func TestOpenAIWriterFallbackReasons(t *testing.T) {
	cases := []struct {
		name   string
		key    string
		client *http.Client
		reason string
	}{
		{
			name:   "missing_key",
			reason: "missing_api_key",
		},
		{
			name: "transport_error",
			key:  "k",
			client: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			})},
			reason: "http_request",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var captured string
			writer := NewOpenAIWriter(OpenAIOptions{
				APIKey:     tc.key,
				BaseURL:    "http://copy.invalid/v1",
				HTTPClient: tc.client,
				OnFallback: func(reason string, err error) { captured = reason },
			})
			out, err := writer.Write(context.Background(), sampleProduct())
			if err != nil {
				t.Fatalf("Write error: %v", err)
			}
			if captured != tc.reason {
				t.Fatalf("reason = %q, want %q", captured, tc.reason)
			}
			if out.Provider != staticProviderName || out.CoverTitle != "精选好物" {
				t.Fatalf("unexpected fallback copy: %#v", out)
			}
		})
	}
}

func TestOpenAIWriterFallsBackOnBadResponses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   func(t *testing.T) []byte
		reason string
	}{
		{
			name:   "http_status",
			status: http.StatusUnauthorized,
			body:   func(t *testing.T) []byte { return []byte(`{"error":{"message":"bad key"}}`) },
			reason: "http_status",
		},
		{
			name:   "not_json_content",
			status: http.StatusOK,
			body:   func(t *testing.T) []byte { return chatCompletionBody(t, "sorry, I cannot help") },
			reason: "parse_payload",
		},
		{
			name:   "empty_content",
			status: http.StatusOK,
			body:   func(t *testing.T) []byte { return chatCompletionBody(t, "  ") },
			reason: "empty_response",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write(tc.body(t))
			}))
			defer ts.Close()

			var captured string
			writer := NewOpenAIWriter(OpenAIOptions{
				APIKey:     "k",
				BaseURL:    ts.URL,
				OnFallback: func(reason string, err error) { captured = reason },
			})
			out, err := writer.Write(context.Background(), sampleProduct())
			if err != nil {
				t.Fatalf("Write error: %v", err)
			}
			if captured != tc.reason {
				t.Fatalf("reason = %q, want %q", captured, tc.reason)
			}
			if len(out.Tags) != 1 || out.Tags[0] != "好物推荐" {
				t.Fatalf("unexpected fallback tags: %#v", out.Tags)
			}
		})
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "prefix {\"a\":1} suffix", want: `{"a":1}`},
		{in: "   ", want: ""},
	}
	for _, tc := range cases {
		if got := extractJSONFragment(tc.in); got != tc.want {
			t.Fatalf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
