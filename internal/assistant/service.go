package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config points at the external text-generation API. The assistant is
// optional: without an API key every chat gets the fallback reply.
type Config struct {
	APIURL string
	APIKey string
}

func NewConfig() *Config {
	url := os.Getenv("ASSISTANT_API_URL")
	if url == "" {
		url = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &Config{APIURL: url, APIKey: os.Getenv("ASSISTANT_API_KEY")}
}

// Action is a suggested follow-up the client can render as a button.
type Action struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

type Reply struct {
	Answer  string   `json:"answer"`
	Actions []Action `json:"actions"`
}

// models to try in order, most capable first.
var modelsToTry = []string{"gemini-2.5-pro", "gemini-2.5-flash"}

const promptTemplate = `Role: You are the helpful "CampusQuery" AI assistant for a smart university campus.
Goal: Answer the student's question accurately.

User Question: %s

Instructions:
1. Be friendly, concise, and helpful.
2. Suggest 1-3 concrete actions the user can take.
3. YOUR OUTPUT MUST BE VALID JSON ONLY, no Markdown fences.

JSON Schema:
{"answer": "String", "actions": [{"label": "String", "type": "link | map | calendar | info", "value": "String"}]}`

type Service struct {
	config *Config
	client *http.Client
	logger *zap.Logger
}

func NewService(config *Config, logger *zap.Logger) *Service {
	return &Service{
		config: config,
		client: &http.Client{Timeout: 20 * time.Second},
		logger: logger,
	}
}

// GenerateReply asks the remote service for an answer. Any failure — missing
// key, network error, unparsable output — degrades to a canned fallback; the
// caller never sees an error.
func (s *Service) GenerateReply(ctx context.Context, message string) Reply {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{
			Answer:  "Ask me anything about campus life, notices, events or the marketplace.",
			Actions: []Action{{Label: "Browse Notices", Type: "link", Value: "/notices"}},
		}
	}
	if s.config.APIKey == "" {
		s.logger.Warn("Assistant API key not configured, serving fallback")
		return fallbackReply()
	}

	var lastErr error
	for _, model := range modelsToTry {
		reply, err := s.generate(ctx, model, message)
		if err == nil {
			return reply
		}
		lastErr = err
	}
	s.logger.Error("Assistant generation failed", zap.Error(lastErr))
	return fallbackReply()
}

func (s *Service) generate(ctx context.Context, model, message string) (Reply, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": fmt.Sprintf(promptTemplate, message)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Reply{}, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.config.APIURL, model, s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Reply{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Reply{}, fmt.Errorf("assistant API returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Reply{}, err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return Reply{}, errors.New("assistant API returned no candidates")
	}

	return parseReply(decoded.Candidates[0].Content.Parts[0].Text)
}

// parseReply extracts the JSON object from the model output, tolerating
// Markdown fences and chatter around it.
func parseReply(text string) (Reply, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return Reply{}, errors.New("no JSON object in assistant output")
	}

	var reply Reply
	if err := json.Unmarshal([]byte(text[first:last+1]), &reply); err != nil {
		return Reply{}, err
	}
	if reply.Answer == "" {
		return Reply{}, errors.New("assistant output missing answer")
	}
	if reply.Actions == nil {
		reply.Actions = []Action{}
	}
	return reply, nil
}

func fallbackReply() Reply {
	return Reply{
		Answer: "I am unable to reach the AI service right now. Meanwhile, the latest notices and events are just a tap away.",
		Actions: []Action{
			{Label: "Browse Notices", Type: "link", Value: "/notices"},
			{Label: "Upcoming Events", Type: "calendar", Value: "/events"},
		},
	}
}
