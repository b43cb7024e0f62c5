package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/englearn/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Incomplete responses fail to parse
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	// rate limited
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// CheckGrammar implements the inference.Client interface
func (client *Client) CheckGrammar(
	ctx context.Context,
	params inference.CheckGrammarRequest,
) (inference.CheckGrammarResponse, error) {
	var result inference.CheckGrammarResponse
	if err := retry.Do(
		func() error {
			response, err := client.checkGrammar(ctx, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Info("retrying OpenAI API call", "error", err)
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return inference.CheckGrammarResponse{}, err
	}
	return result, nil
}

const grammarSystemPrompt = `You are an English teacher correcting a learner's writing practice.

Return ONLY a JSON object with these fields:
- "corrected_text": the learner's text with every error fixed, keeping their wording where it is already correct
- "score": an integer from 0 to 100 for grammatical accuracy and appropriate vocabulary
- "issues": an array of {"original": "<learner's words>", "correction": "<fixed words>", "explanation": "<one short sentence>", "category": "grammar" | "vocabulary" | "spelling" | "punctuation" | "style"}

RULES
- Judge the text against the learner's CEFR level when one is given. Do not penalize simple but correct sentences.
- If a writing task is given and the text does not address it, mention it as a "style" issue.
- A text without errors scores at least 90 and has an empty "issues" array.
- No text outside the JSON object.`

func (client *Client) getRequestBody(args inference.CheckGrammarRequest) (ChatCompletionRequest, error) {
	userMessage, err := json.Marshal(args)
	if err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("json.Marshal > %w", err)
	}

	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: grammarSystemPrompt},
			{Role: RoleUser, Content: string(userMessage)},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}, nil
}

func (client *Client) checkGrammar(
	ctx context.Context,
	args inference.CheckGrammarRequest,
) (inference.CheckGrammarResponse, error) {
	if strings.TrimSpace(args.Text) == "" {
		return inference.CheckGrammarResponse{}, nil
	}

	requestBody, err := client.getRequestBody(args)
	if err != nil {
		return inference.CheckGrammarResponse{}, fmt.Errorf("getRequestBody > %w", err)
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.CheckGrammarResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.CheckGrammarResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.CheckGrammarResponse{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return inference.CheckGrammarResponse{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"model", responseBody.Model,
		"totalTokens", responseBody.Usage.TotalTokens,
	)

	var decoded inference.CheckGrammarResponse
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &decoded); err != nil {
		return inference.CheckGrammarResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	decoded.Score = min(max(decoded.Score, 0), 100)
	return decoded, nil
}

// extractJSONObject returns the first balanced {...} in content, skipping any
// prose the model wrapped around it. Content without one is returned as is.
func extractJSONObject(content string) string {
	start := -1
	depth := 0
	inString := false
	escapeNext := false

	for i, ch := range content {
		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return content
}
