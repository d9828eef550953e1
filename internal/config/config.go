package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// AdminID - telegram_id администратора салона
	AdminID int64

	// Timezone - фиксированный часовой пояс бота (IANA)
	Timezone string

	// Google интеграции (календарь + таблица)
	GoogleCredentialsFile string
	CalendarID            string
	SpreadsheetID         string

	MigrationsPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:                 os.Getenv("DB_DSN"),
		Environment:           os.Getenv("ENV"),
		Timezone:              os.Getenv("TIMEZONE"),
		GoogleCredentialsFile: os.Getenv("GCAL_CREDENTIALS_FILE"),
		CalendarID:            os.Getenv("GCAL_CALENDAR_ID"),
		SpreadsheetID:         os.Getenv("SPREADSHEET_ID"),
		MigrationsPath:        os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Tashkent"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	adminRaw := os.Getenv("ADMIN_ID")
	if adminRaw == "" {
		return nil, fmt.Errorf("ADMIN_ID is required but not set")
	}
	adminID, err := strconv.ParseInt(adminRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID must be a number: %w", err)
	}
	cfg.AdminID = adminID

	if cfg.GoogleCredentialsFile == "" || cfg.CalendarID == "" {
		return nil, fmt.Errorf("GCAL_CREDENTIALS_FILE and GCAL_CALENDAR_ID are required but not set")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}
