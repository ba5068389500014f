package config

import (
	"fmt"

	"vendoranalysis/consolidation"
)

// Validate проверяет конфигурацию целиком (fail-fast).
// Ошибка здесь прерывает запуск: анализ на кривой конфигурации
// обесценивает каждую следующую оценку.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.NetSuiteBatchSize <= 0 {
		return fmt.Errorf("netsuite batch size must be positive, got %d", c.NetSuiteBatchSize)
	}
	if c.NetSuiteMaxRetries < 0 {
		return fmt.Errorf("netsuite max retries is negative")
	}
	if c.NetSuiteRateLimit <= 0 {
		return fmt.Errorf("netsuite rate limit must be positive, got %f", c.NetSuiteRateLimit)
	}

	return c.Analysis.Validate()
}

// Validate проверяет параметры анализа
func (a *AnalysisConfig) Validate() error {
	if a.Country == "" {
		return fmt.Errorf("analysis country is empty")
	}
	if a.DuplicateThreshold <= 0 || a.DuplicateThreshold > 1 {
		return fmt.Errorf("duplicate threshold %f out of (0, 1]", a.DuplicateThreshold)
	}
	if err := a.SignalWeights.Validate(); err != nil {
		return fmt.Errorf("invalid signal weights: %w", err)
	}
	if a.BaselineDiscount < 0 || a.BaselineDiscount > 1 {
		return fmt.Errorf("baseline discount rate %f out of [0, 1]", a.BaselineDiscount)
	}
	if err := consolidation.ValidateTiers(a.VolumeTiers); err != nil {
		return fmt.Errorf("invalid volume tiers: %w", err)
	}
	if a.PerVendorAdminCost < 0 {
		return fmt.Errorf("per vendor admin cost is negative: %f", a.PerVendorAdminCost)
	}
	if a.Workers < 0 {
		return fmt.Errorf("workers count is negative: %d", a.Workers)
	}
	return nil
}
