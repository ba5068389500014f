// Package analysis связывает этапы прогона: проверка входных записей,
// нормализация, поиск дубликатов и оценка консолидации.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vendoranalysis/consolidation"
	"vendoranalysis/internal/config"
	"vendoranalysis/normalization"
	"vendoranalysis/quality"
	apperrors "vendoranalysis/server/errors"
)

// Result итог одного прогона анализа
type Result struct {
	VendorCount   int
	Pairs         []normalization.DuplicatePair
	Opportunities []consolidation.ConsolidationOpportunity
	Warnings      []quality.Warning
	Elapsed       time.Duration
}

// Pipeline выполняет полный цикл анализа поставщиков.
// Конфигурация фиксируется при создании; безопасен для одновременных прогонов.
type Pipeline struct {
	cfg     config.AnalysisConfig
	matcher *normalization.VendorMatcher
	planner *consolidation.Planner
}

// NewPipeline создает пайплайн анализа. Конфигурация проверяется сразу:
// прогон с некорректными весами или категориями не должен начинаться.
func NewPipeline(cfg config.AnalysisConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewValidationError("некорректная конфигурация анализа", err)
	}

	return &Pipeline{
		cfg:     cfg,
		matcher: normalization.NewVendorMatcher(cfg.DuplicateThreshold, cfg.SignalWeights),
		planner: consolidation.NewPlanner(cfg.BaselineDiscount, cfg.VolumeTiers, cfg.PerVendorAdminCost),
	}, nil
}

// Run выполняет анализ над набором записей. Если spend не задан,
// расходы берутся из поля AnnualSpend записей.
//
// Любая невалидная запись прерывает прогон до начала матчинга: частичный
// результат по битому входу хуже, чем отсутствие результата. Проблемы
// качества полей, не мешающие матчингу, накапливаются как предупреждения.
func (p *Pipeline) Run(ctx context.Context, records []*normalization.VendorRecord, spend map[string]float64) (*Result, error) {
	start := time.Now()

	// 1. Проверка входа, fail-fast
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("некорректная запись поставщика %q", record.ID), err)
		}
	}

	// 2. Нормализация и проверка качества полей.
	// Исходный налоговый номер снимается до нормализации, иначе
	// предупреждение о непригодном номере отличить не от чего.
	collector := quality.NewCollector()
	for _, record := range records {
		rawTaxID := record.TaxID
		record.Normalize(p.cfg.Country)
		collector.CheckVendor(record, rawTaxID, p.cfg.Country)
	}

	// 3. Поиск дубликатов
	finder := normalization.NewDuplicateFinder(p.matcher, p.cfg.Workers)
	finder.SetExhaustive(p.cfg.Exhaustive)

	pairs, err := finder.FindDuplicates(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("duplicate detection failed: %w", err)
	}

	// 4. Оценка консолидации
	if spend == nil {
		spend = make(map[string]float64, len(records))
		for _, record := range records {
			spend[record.ID] = record.AnnualSpend
		}
	}
	opportunities := p.planner.Plan(pairs, spend)

	elapsed := time.Since(start)
	slog.Info("analysis completed",
		"vendors", len(records),
		"pairs", len(pairs),
		"opportunities", len(opportunities),
		"warnings", collector.Count(),
		"elapsed", elapsed,
	)

	return &Result{
		VendorCount:   len(records),
		Pairs:         pairs,
		Opportunities: opportunities,
		Warnings:      collector.Warnings(),
		Elapsed:       elapsed,
	}, nil
}

// Threshold возвращает порог уверенности пайплайна
func (p *Pipeline) Threshold() float64 {
	return p.matcher.Threshold()
}
