// Package config загружает и проверяет конфигурацию приложения.
// Все параметры имеют явные значения по умолчанию - никаких магических
// чисел, разбросанных по коду. Некорректная конфигурация обнаруживается
// при загрузке, до запуска анализа.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"vendoranalysis/consolidation"
	"vendoranalysis/normalization"
)

// Config конфигурация приложения
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath string `json:"database_path"`

	// NetSuite (только чтение, учетные данные из окружения)
	NetSuiteAccountID  string        `json:"netsuite_account_id"`
	NetSuiteToken      string        `json:"-"`
	NetSuiteTimeout    time.Duration `json:"netsuite_timeout"`
	NetSuiteRateLimit  float64       `json:"netsuite_rate_limit"` // запросов в секунду
	NetSuiteBatchSize  int           `json:"netsuite_batch_size"`
	NetSuiteMaxRetries int           `json:"netsuite_max_retries"`
	NetSuiteRetryDelay time.Duration `json:"netsuite_retry_delay"`

	// Анализ
	Analysis AnalysisConfig `json:"analysis"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// AnalysisConfig параметры поиска дубликатов и планирования консолидации
type AnalysisConfig struct {
	Country            string                      `json:"country"`
	DuplicateThreshold float64                     `json:"duplicate_threshold"`
	SignalWeights      normalization.SignalWeights `json:"signal_weights"`
	BaselineDiscount   float64                     `json:"baseline_discount_rate"`
	VolumeTiers        []consolidation.VolumeTier  `json:"volume_tiers"`
	PerVendorAdminCost float64                     `json:"per_vendor_admin_cost"`
	Workers            int                         `json:"workers"`
	Exhaustive         bool                        `json:"exhaustive"`
}

// DefaultAnalysisConfig возвращает параметры анализа по умолчанию
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Country:            "US",
		DuplicateThreshold: normalization.DefaultDuplicateThreshold,
		SignalWeights:      normalization.DefaultSignalWeights(),
		BaselineDiscount:   consolidation.DefaultBaselineDiscountRate,
		VolumeTiers:        consolidation.DefaultVolumeTiers(),
		PerVendorAdminCost: consolidation.DefaultPerVendorAdminCost,
		Workers:            0, // 0 - по числу CPU
	}
}

// LoadConfig загружает конфигурацию из JSON-файла, затем накладывает
// переменные окружения. Отсутствующий файл - не ошибка: работаем на
// значениях по умолчанию и окружении.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Port:               getEnv("SERVER_PORT", "9099"),
		DatabasePath:       getEnv("DATABASE_PATH", "vendors.db"),
		NetSuiteTimeout:    30 * time.Second,
		NetSuiteRateLimit:  2,
		NetSuiteBatchSize:  1000,
		NetSuiteMaxRetries: 3,
		NetSuiteRetryDelay: 2 * time.Second,
		Analysis:           DefaultAnalysisConfig(),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// Учетные данные только из окружения, в файле им не место
	config.NetSuiteAccountID = getEnv("NS_ACCOUNT_ID", config.NetSuiteAccountID)
	config.NetSuiteToken = os.Getenv("NS_TOKEN")

	if threshold := os.Getenv("DUPLICATE_THRESHOLD"); threshold != "" {
		value, err := strconv.ParseFloat(threshold, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DUPLICATE_THRESHOLD %q: %w", threshold, err)
		}
		config.Analysis.DuplicateThreshold = value
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// getEnv возвращает значение переменной окружения или дефолт
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
