package ai

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/config"
	"golang.org/x/time/rate"
)

// FallbackNotes подставляется при недоступности генерации:
// вызывающий всегда получает осмысленный текст, а не ошибку
const FallbackNotes = "Станция быстрой зарядки электромобилей. Заметки не сгенерированы, заполните вручную."

// Service - сервис генерации заметок о станциях
type Service struct {
	cfg     config.GeminiConfig
	client  *Client
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// NewService создаёт новый сервис генерации
func NewService(cfg config.GeminiConfig) *Service {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 10
	}
	return &Service{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

// Initialize инициализирует клиент Gemini
func (s *Service) Initialize(ctx context.Context) error {
	client, err := NewClient(ctx, s.cfg.APIKey, s.cfg.Model)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	return nil
}

// IsEnabled проверяет, активен ли сервис генерации
func (s *Service) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil && s.client.IsEnabled()
}

// SuggestNotes генерирует текст заметок по локации и адресу станции.
// Любой сбой (нет ключа, лимит, ошибка API) даёт fallback-текст,
// ошибки наружу не отдаются.
func (s *Service) SuggestNotes(ctx context.Context, locationName, address string) string {
	if !s.IsEnabled() {
		return FallbackNotes
	}

	if !s.limiter.Allow() {
		log.Println("[AI] Превышен лимит запросов к Gemini, отдаём fallback")
		return FallbackNotes
	}

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	text, err := client.Generate(ctx, notesPrompt(locationName, address))
	if err != nil {
		log.Printf("[AI] Ошибка генерации заметок: %v", err)
		return FallbackNotes
	}
	return text
}
