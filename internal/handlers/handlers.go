package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/export"
	"github.com/Almaty808/Fast-Charge-sub000/internal/inventory"
	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/query"
	"github.com/Almaty808/Fast-Charge-sub000/internal/repository"
	"github.com/Almaty808/Fast-Charge-sub000/internal/services/email"
	"github.com/gin-gonic/gin"
)

// Handler - обработчики HTTP-запросов
type Handler struct {
	stations *repository.StationRepository
	engine   *inventory.Engine
	pdf      *export.PDFGenerator
	email    *email.Service
}

// NewHandler создаёт новый обработчик
func NewHandler(
	stations *repository.StationRepository,
	engine *inventory.Engine,
	pdf *export.PDFGenerator,
	emailService *email.Service,
) *Handler {
	return &Handler{
		stations: stations,
		engine:   engine,
		pdf:      pdf,
		email:    emailService,
	}
}

// === Stations ===

// GetStations возвращает станции с фильтрацией по статусу и поиском
func (h *Handler) GetStations(c *gin.Context) {
	statusFilter := c.DefaultQuery("status", query.StatusAll)
	searchQuery := c.Query("q")

	stations := query.Filter(h.stations.All(), statusFilter, searchQuery)
	c.JSON(http.StatusOK, gin.H{
		"stations":        stations,
		"inventory_count": h.stations.InventoryCount(),
	})
}

// GetStation возвращает станцию по id
func (h *Handler) GetStation(c *gin.Context) {
	station, ok := h.stations.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
		return
	}
	c.JSON(http.StatusOK, station)
}

// GetStationHistory возвращает журнал изменений станции (новые записи первыми)
func (h *Handler) GetStationHistory(c *gin.Context) {
	station, ok := h.stations.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"station_id": station.ID,
		"history":    station.History,
	})
}

// CreateStation создаёт новую станцию, списывая её со склада
func (h *Handler) CreateStation(c *gin.Context) {
	var draft models.Station
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.engine.Create(draft, c.GetString("employee"))
	if err != nil {
		if errors.Is(err, inventory.ErrInventoryExhausted) {
			c.JSON(http.StatusConflict, gin.H{"error": "На складе нет свободных станций. Добавление невозможно."})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, station)
}

// UpdateStation применяет изменения формы редактирования
func (h *Handler) UpdateStation(c *gin.Context) {
	var input models.Station
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, warning, err := h.engine.Update(c.Param("id"), input, c.GetString("employee"))
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"station": station}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// SetStatusRequest - запрос на смену статуса
type SetStatusRequest struct {
	Status models.StationStatus `json:"status" binding:"required"`
}

// SetStationStatus меняет только статус станции
func (h *Handler) SetStationStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите статус"})
		return
	}

	station, err := h.engine.SetStatus(c.Param("id"), req.Status, c.GetString("employee"))
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
		case errors.Is(err, inventory.ErrInventoryExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "На складе нет свободных станций. Статус не изменён."})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, station)
}

// DeleteStation помечает станцию демонтированной (запись сохраняется)
func (h *Handler) DeleteStation(c *gin.Context) {
	station, err := h.engine.SoftDelete(c.Param("id"), c.GetString("employee"))
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Станция демонтирована и возвращена на склад",
		"station": station,
	})
}

// === Inventory ===

// GetInventory возвращает остаток склада
func (h *Handler) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"inventory_count": h.stations.InventoryCount()})
}

// SetInventoryRequest - запрос на установку остатка склада
type SetInventoryRequest struct {
	Count *int `json:"count" binding:"required"`
}

// SetInventory устанавливает остаток склада (только для админов)
func (h *Handler) SetInventory(c *gin.Context) {
	var req SetInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите количество"})
		return
	}

	if err := h.engine.SetInventory(*req.Count, c.GetString("employee")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory_count": h.stations.InventoryCount()})
}

// === Export ===

// exportSelection применяет те же фильтры, что и список станций
func (h *Handler) exportSelection(c *gin.Context) []models.Station {
	statusFilter := c.DefaultQuery("status", query.StatusAll)
	searchQuery := c.Query("q")
	return query.Filter(h.stations.All(), statusFilter, searchQuery)
}

// ExportStationsCSV выгружает отфильтрованные станции в CSV
func (h *Handler) ExportStationsCSV(c *gin.Context) {
	data, err := export.CSV(h.exportSelection(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Нет станций для экспорта"})
		return
	}

	fileName := export.FileName(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

// ExportStationsXLSX выгружает отфильтрованные станции в Excel
func (h *Handler) ExportStationsXLSX(c *gin.Context) {
	data, err := export.XLSX(h.exportSelection(c))
	if err != nil {
		if errors.Is(err, export.ErrNoStations) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Нет станций для экспорта"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileName := "stations_export_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportStationPDF выгружает паспорт станции в PDF
func (h *Handler) ExportStationPDF(c *gin.Context) {
	station, ok := h.stations.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
		return
	}

	data, err := h.pdf.StationPDF(station)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="station_`+station.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// EmailPassportRequest - запрос на отправку паспорта станции по почте
type EmailPassportRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// EmailStationPassport отправляет паспорт станции PDF-вложением на email
func (h *Handler) EmailStationPassport(c *gin.Context) {
	var req EmailPassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Введите корректный email"})
		return
	}

	if !h.email.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Отправка почты не настроена"})
		return
	}

	station, ok := h.stations.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Станция не найдена"})
		return
	}

	data, err := h.pdf.StationPDF(station)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.email.SendStationPassport(req.Email, station.LocationName, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка отправки письма"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Паспорт станции отправлен на " + req.Email})
}
