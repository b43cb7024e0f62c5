package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/at-ishikawa/englearn/internal/inference"
)

func chatResponse(content string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4",
		Choices: []Choice{
			{
				Index:        0,
				Message:      ChoiceMessage{Role: RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}
}

func TestClient_CheckGrammar(t *testing.T) {
	request := inference.CheckGrammarRequest{
		Prompt: "Describe your weekend.",
		Text:   "Yesterday I go to the park with my freinds.",
		Level:  "A2",
	}

	tests := []struct {
		name              string
		request           inference.CheckGrammarRequest
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)

		wantResponse    inference.CheckGrammarResponse
		wantCalls       int32
		wantError       bool
		wantErrorString string
	}{
		{
			name:    "Success",
			request: request,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4", reqBody.Model)
				require.Len(t, reqBody.Messages, 2)
				assert.Equal(t, RoleSystem, reqBody.Messages[0].Role)
				assert.Contains(t, reqBody.Messages[1].Content, "my freinds")
				assert.Equal(t, &ResponseFormat{Type: "json_object"}, reqBody.ResponseFormat)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse(`{
					"corrected_text": "Yesterday I went to the park with my friends.",
					"score": 72,
					"issues": [
						{"original": "go", "correction": "went", "explanation": "Use the past tense for yesterday.", "category": "grammar"},
						{"original": "freinds", "correction": "friends", "explanation": "Spelling.", "category": "spelling"}
					]
				}`))
			},
			wantResponse: inference.CheckGrammarResponse{
				CorrectedText: "Yesterday I went to the park with my friends.",
				Score:         72,
				Issues: []inference.Issue{
					{Original: "go", Correction: "went", Explanation: "Use the past tense for yesterday.", Category: inference.IssueGrammar},
					{Original: "freinds", Correction: "friends", Explanation: "Spelling.", Category: inference.IssueSpelling},
				},
			},
			wantCalls: 1,
		},
		{
			name:    "JSON wrapped in prose and an out of range score",
			request: request,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse("Here you go:\n" +
					`{"corrected_text": "Fine {really}.", "score": 120, "issues": []}` + "\nHope it helps!"))
			},
			wantResponse: inference.CheckGrammarResponse{
				CorrectedText: "Fine {really}.",
				Score:         100,
				Issues:        []inference.Issue{},
			},
			wantCalls: 1,
		},
		{
			name:    "Empty text - no HTTP request",
			request: inference.CheckGrammarRequest{Text: "  "},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				t.Error("HTTP request should not be made for empty text")
			},
			wantResponse: inference.CheckGrammarResponse{},
			wantCalls:    0,
		},
		{
			name:    "Retries a server error",
			request: request,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error": {"message": "overloaded"}}`))
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse(`{"corrected_text": "ok", "score": 95, "issues": []}`))
			},
			wantResponse: inference.CheckGrammarResponse{CorrectedText: "ok", Score: 95, Issues: []inference.Issue{}},
			wantCalls:    2,
		},
		{
			name:    "Gives up after the retry budget",
			request: request,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": {"message": "Internal server error"}}`))
			},
			wantCalls:       2,
			wantError:       true,
			wantErrorString: "response error 500",
		},
		{
			name:    "Unauthorized is not retried",
			request: request,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
			},
			wantCalls:       1,
			wantError:       true,
			wantErrorString: "response error 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, atomic.AddInt32(&calls, 1), w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient:       resty.New().SetBaseURL(server.URL),
				model:            "gpt-4",
				maxRetryAttempts: 1,
			}
			defer client.Close()

			gotResponse, gotErr := client.CheckGrammar(context.Background(), tt.request)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))

			if tt.wantError {
				require.Error(t, gotErr)
				if tt.wantErrorString != "" {
					assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				}
				return
			}

			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantResponse, gotResponse)
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain object", content: `{"a": 1}`, want: `{"a": 1}`},
		{name: "surrounded by prose", content: "sure!\n{\"a\": {\"b\": 2}}\nthanks", want: `{"a": {"b": 2}}`},
		{name: "braces inside strings", content: `{"a": "}{", "b": "\"}"}`, want: `{"a": "}{", "b": "\"}"}`},
		{name: "no object", content: "no json here", want: "no json here"},
		{name: "unterminated", content: `{"a": 1`, want: `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.content))
		})
	}
}
