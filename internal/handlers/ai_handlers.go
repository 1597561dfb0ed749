package handlers

import (
	"net/http"

	"github.com/Almaty808/Fast-Charge-sub000/internal/services/ai"
	"github.com/gin-gonic/gin"
)

// AIHandler - обработчики генерации заметок
type AIHandler struct {
	aiService *ai.Service
}

// NewAIHandler создаёт новый обработчик AI
func NewAIHandler(aiService *ai.Service) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// SuggestNotesRequest - запрос на генерацию заметок
type SuggestNotesRequest struct {
	LocationName string `json:"location_name" binding:"required"`
	Address      string `json:"address" binding:"required"`
}

// SuggestNotes генерирует черновик заметок для карточки станции.
// Ответ всегда успешный: при сбое генерации возвращается fallback-текст.
func (h *AIHandler) SuggestNotes(c *gin.Context) {
	var req SuggestNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите локацию и адрес"})
		return
	}

	notes := h.aiService.SuggestNotes(c.Request.Context(), req.LocationName, req.Address)
	c.JSON(http.StatusOK, gin.H{
		"notes":     notes,
		"generated": h.aiService.IsEnabled(),
	})
}
