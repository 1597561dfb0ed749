package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/Almaty808/Fast-Charge-sub000/internal/config"
	"github.com/Almaty808/Fast-Charge-sub000/internal/export"
	"github.com/Almaty808/Fast-Charge-sub000/internal/handlers"
	"github.com/Almaty808/Fast-Charge-sub000/internal/inventory"
	"github.com/Almaty808/Fast-Charge-sub000/internal/middleware"
	"github.com/Almaty808/Fast-Charge-sub000/internal/repository"
	"github.com/Almaty808/Fast-Charge-sub000/internal/services/ai"
	"github.com/Almaty808/Fast-Charge-sub000/internal/services/auth"
	"github.com/Almaty808/Fast-Charge-sub000/internal/services/email"
	"github.com/Almaty808/Fast-Charge-sub000/internal/store"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к БД
	db, err := repository.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}

	// Инициализация хранилища и репозиториев
	kv := store.New(db)
	repo := repository.NewRepository(db)
	stations := repository.NewStationRepository(kv)
	if err := stations.Load(); err != nil {
		log.Fatalf("Ошибка загрузки состояния станций: %v", err)
	}

	// Движок жизненного цикла
	engine := inventory.NewEngine(stations)

	// Инициализация AI сервиса
	aiService := ai.NewService(cfg.Gemini)
	if err := aiService.Initialize(context.Background()); err != nil {
		log.Printf("[AI] Предупреждение: ошибка инициализации AI: %v", err)
	}

	// Инициализация cron-задач
	c := cron.New(cron.WithLocation(time.UTC))

	// Резервная копия состояния — ежедневно в 01:00 UTC
	_, err = c.AddFunc("0 1 * * *", func() {
		log.Println("[Cron] Резервная копия состояния...")
		backupState(kv)
	})
	if err != nil {
		log.Fatalf("Ошибка добавления cron-задачи резервных копий: %v", err)
	}

	// Перечитывание состояния из БД — каждые 5 минут, чтобы внешние
	// изменения (второй инстанс, ручная правка) попадали в память
	_, err = c.AddFunc("*/5 * * * *", func() {
		stations.Refresh()
	})
	if err != nil {
		log.Fatalf("Ошибка добавления cron-задачи перечитывания состояния: %v", err)
	}

	// Очистка просроченных OTP кодов — каждый час
	_, err = c.AddFunc("30 * * * *", func() {
		deleted, err := repo.DeleteExpiredOTPCodes()
		if err != nil {
			log.Printf("[Cron] Ошибка очистки OTP кодов: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("[Cron] Удалено просроченных OTP кодов: %d", deleted)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка добавления cron-задачи очистки OTP: %v", err)
	}

	// Резервная копия при запуске приложения
	go func() {
		log.Println("[Старт] Резервная копия состояния...")
		backupState(kv)
	}()

	c.Start()
	defer c.Stop()

	// Инициализация HTTP-сервера
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// Email сервис (при выключенном SMTP OTP коды пишутся в лог)
	emailService := email.NewService(cfg.Email)
	if !emailService.IsEnabled() {
		log.Println("[EMAIL] SMTP не настроен, письма отправляться не будут")
	}

	// Auth handlers
	authHandler := auth.NewAuthHandler(repo, emailService)

	// API handlers
	pdfGen := export.NewPDFGenerator(cfg.Export.FontsDir)
	h := handlers.NewHandler(stations, engine, pdfGen, emailService)
	aiHandler := handlers.NewAIHandler(aiService)

	// Маршруты API
	api := router.Group("/api")
	{
		// Авторизация (без middleware)
		api.POST("/auth/request-code", authHandler.RequestCode)
		api.POST("/auth/verify-code", authHandler.VerifyCode)
		api.GET("/auth/me", middleware.Auth(), authHandler.GetCurrentUser)
		api.PUT("/auth/profile", middleware.Auth(), authHandler.UpdateProfile)

		// Станции (для всех авторизованных сотрудников)
		stationsAPI := api.Group("/stations")
		stationsAPI.Use(middleware.Auth(), middleware.EmployeeContext())
		{
			stationsAPI.GET("", h.GetStations)
			stationsAPI.POST("", h.CreateStation)
			stationsAPI.GET("/export/csv", h.ExportStationsCSV)
			stationsAPI.GET("/export/xlsx", h.ExportStationsXLSX)
			stationsAPI.GET("/:id", h.GetStation)
			stationsAPI.PUT("/:id", h.UpdateStation)
			stationsAPI.PUT("/:id/status", h.SetStationStatus)
			stationsAPI.DELETE("/:id", h.DeleteStation)
			stationsAPI.GET("/:id/history", h.GetStationHistory)
			stationsAPI.GET("/:id/pdf", h.ExportStationPDF)
			stationsAPI.POST("/:id/pdf/email", h.EmailStationPassport)
		}

		// Склад: остаток видят все, менять может только админ
		api.GET("/inventory", middleware.Auth(), h.GetInventory)
		api.PUT("/inventory", middleware.Auth(), middleware.EmployeeContext(), middleware.RequireAdmin(), h.SetInventory)

		// Генерация заметок
		api.POST("/ai/suggest-notes", middleware.Auth(), aiHandler.SuggestNotes)
	}

	// Запуск сервера
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Сервер запущен на порту %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
		os.Exit(1)
	}
}

// backupState сохраняет копию коллекции станций и остатка склада
// под датированными ключами. Ошибки логируются, не прерывают работу.
func backupState(kv *store.Store) {
	date := time.Now().UTC().Format("2006-01-02")

	var stations json.RawMessage
	if ok, err := kv.GetJSON(store.KeyStations, &stations); err != nil {
		log.Printf("[Backup] Ошибка чтения станций: %v", err)
		return
	} else if ok {
		if err := kv.SetJSON("backup:"+store.KeyStations+":"+date, stations); err != nil {
			log.Printf("[Backup] Ошибка сохранения копии станций: %v", err)
		}
	}

	var count json.RawMessage
	if ok, err := kv.GetJSON(store.KeyInventoryCount, &count); err != nil {
		log.Printf("[Backup] Ошибка чтения остатка склада: %v", err)
		return
	} else if ok {
		if err := kv.SetJSON("backup:"+store.KeyInventoryCount+":"+date, count); err != nil {
			log.Printf("[Backup] Ошибка сохранения копии остатка: %v", err)
		}
	}

	log.Printf("[Backup] Резервная копия за %s готова", date)
}
