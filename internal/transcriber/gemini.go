package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"google.golang.org/genai"
)

const transcribePrompt = `Transcribe the speech in the attached audio verbatim.
Language: %s.
Reply with the transcript only, without timestamps, speaker labels or commentary.
If the audio contains no intelligible speech, reply with an empty message.`

type implGemini struct {
	apiKeys    []string
	currentKey int
	model      string
	timeout    time.Duration
	logger     logger.Logger
}

// NewGemini creates a Transcriber that sends audio to Gemini, rotating through
// the configured API keys when one is rate limited.
func NewGemini(cfg config.GeminiConfig, timeout time.Duration, log logger.Logger) Transcriber {
	return &implGemini{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		timeout: timeout,
		logger:  log,
	}
}

func (g *implGemini) Transcribe(ctx context.Context, audioPath, locale string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("gemini: no API keys configured")
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildPrompt(locale)),
			genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
		}, genai.RoleUser),
	}

	text, err := g.generate(ctx, contents)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// generate sends contents to Gemini with the current API key.
func (g *implGemini) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	return g.withKeyRotation(ctx, func(ctx context.Context, key string) (string, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return "", fmt.Errorf("create client: %w", err)
		}

		resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if resp == nil {
			return "", nil
		}
		return resp.Text(), nil
	})
}

// withKeyRotation runs call with the current key and moves to the next key
// while the service reports a rate limit. Each key is tried at most once.
func (g *implGemini) withKeyRotation(ctx context.Context, call func(ctx context.Context, key string) (string, error)) (string, error) {
	var lastErr error
	for range len(g.apiKeys) {
		text, err := call(ctx, g.apiKeys[g.currentKey])
		if err == nil {
			return text, nil
		}
		if !isRateLimited(err) {
			return "", err
		}

		g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
		g.rotateKey()
		lastErr = err
	}
	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGemini) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func buildPrompt(locale string) string {
	lang := strings.TrimSpace(locale)
	if lang == "" || strings.EqualFold(lang, "auto") {
		lang = "detect automatically"
	}
	return fmt.Sprintf(transcribePrompt, lang)
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	default:
		return "audio/wav"
	}
}
