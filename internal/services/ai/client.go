package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultModel - модель Gemini по умолчанию
	DefaultModel = "gemini-1.5-flash"
)

// Client - клиент для работы с Gemini API
type Client struct {
	genai   *genai.Client
	model   string
	enabled bool
}

// NewClient создаёт новый клиент Gemini. Без API ключа клиент
// создаётся отключённым, а не с ошибкой: генерация заметок
// необязательна для работы приложения.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		log.Println("[AI] API ключ не указан, генерация заметок отключена")
		return &Client{enabled: false}, nil
	}
	if model == "" {
		model = DefaultModel
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Gemini клиента: %w", err)
	}

	log.Printf("[AI] Клиент Gemini инициализирован, модель: %s", model)

	return &Client{
		genai:   gc,
		model:   model,
		enabled: true,
	}, nil
}

// IsEnabled возвращает true если клиент активен
func (c *Client) IsEnabled() bool {
	return c.enabled && c.genai != nil
}

// Close закрывает клиент
func (c *Client) Close() error {
	if c.genai != nil {
		return c.genai.Close()
	}
	return nil
}

// Generate отправляет промпт к Gemini и возвращает текстовый ответ
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsEnabled() {
		return "", fmt.Errorf("AI клиент не инициализирован")
	}

	model := c.genai.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("пустой ответ от Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("ответ Gemini не содержит текста")
	}
	return result, nil
}
