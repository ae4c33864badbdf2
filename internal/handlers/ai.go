package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type assistRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

type assistResponse struct {
	Text string `json:"text"`
}

// Assist rewrites note text through OpenAI. It is the one JSON endpoint on
// the web side, called from the editor; the CSRF token rides in the
// X-CSRF-Token header instead of a form field.
func (h *Handler) Assist(w http.ResponseWriter, r *http.Request) {
	if h.cfg.OpenAIKey == "" {
		writeJSONError(w, http.StatusServiceUnavailable, "AI assist is not configured")
		return
	}

	var req assistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONError(w, http.StatusBadRequest, "Text is required")
		return
	}

	// Notes are plain text, so every prompt pins the output format.
	var prompt string
	switch req.Action {
	case "enhance":
		prompt = `Rewrite this note so it reads clearly:
1. Keep the original meaning
2. Use short paragraphs
3. Return plain text only, no markup

Note:
` + req.Text

	case "summarize":
		prompt = `Summarize this note:
1. Start with a one-sentence overview
2. Follow with short lines starting with -
3. Return plain text only, no markup

Note:
` + req.Text

	case "fix":
		prompt = `Correct grammar and spelling in this note:
1. Keep the wording and line breaks where possible
2. Do not add new content
3. Return plain text only, no markup

Note:
` + req.Text

	default:
		writeJSONError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	client := openai.NewClient(h.cfg.OpenAIKey)
	resp, err := client.CreateChatCompletion(r.Context(), openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		TopP:        0.9,
	})
	if err != nil {
		log.Printf("openai: %v", err)
		writeJSONError(w, http.StatusBadGateway, "AI processing failed")
		return
	}
	if len(resp.Choices) == 0 {
		writeJSONError(w, http.StatusBadGateway, "AI returned no content")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assistResponse{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
