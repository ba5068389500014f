// Package consolidation оценивает финансовый эффект слияния найденных
// пар дубликатов поставщиков: базовая скидка от объединенного объема,
// переход в более высокую скидочную категорию и снижение административных
// расходов на ведение записи.
package consolidation

import (
	"fmt"
	"log/slog"
	"sort"

	"vendoranalysis/normalization"
)

// DefaultBaselineDiscountRate базовая ставка скидки при консолидации объема
const DefaultBaselineDiscountRate = 0.03

// DefaultPerVendorAdminCost годовая административная стоимость ведения
// одной записи поставщика; устраняется при слиянии
const DefaultPerVendorAdminCost = 750.0

// VolumeTier категория объема закупок: порог и ставка скидки
type VolumeTier struct {
	Threshold float64 `json:"threshold"`
	Discount  float64 `json:"discount"`
}

// DefaultVolumeTiers таблица категорий по умолчанию, по убыванию порога
func DefaultVolumeTiers() []VolumeTier {
	return []VolumeTier{
		{Threshold: 500000, Discount: 0.10},
		{Threshold: 250000, Discount: 0.07},
		{Threshold: 100000, Discount: 0.05},
		{Threshold: 50000, Discount: 0.03},
	}
}

// ValidateTiers проверяет таблицу категорий: строгое убывание порогов,
// неотрицательные пороги, скидки в [0,1]. Некорректная таблица - ошибка
// конфигурации, прерывающая весь прогон до начала анализа.
func ValidateTiers(tiers []VolumeTier) error {
	for i, tier := range tiers {
		if tier.Threshold < 0 {
			return fmt.Errorf("volume tier %d has negative threshold %f", i, tier.Threshold)
		}
		if tier.Discount < 0 || tier.Discount > 1 {
			return fmt.Errorf("volume tier %d has discount %f out of [0,1]", i, tier.Discount)
		}
		if i > 0 && tier.Threshold >= tiers[i-1].Threshold {
			return fmt.Errorf("volume tiers must be sorted by descending threshold, tier %d violates order", i)
		}
	}
	return nil
}

// ConsolidationOpportunity оценка выгоды слияния одной пары дубликатов.
// Создается только после завершения матчинга; после создания не изменяется -
// новый прогон порождает новый список.
type ConsolidationOpportunity struct {
	Pair             normalization.DuplicatePair `json:"pair"`
	CombinedSpend    float64                     `json:"combined_spend"`
	BaselineSavings  float64                     `json:"baseline_savings"`
	VolumeUplift     float64                     `json:"volume_uplift"`
	OverheadSavings  float64                     `json:"overhead_savings"`
	EstimatedSavings float64                     `json:"estimated_savings"`
	PriorityScore    float64                     `json:"priority_score"`
}

// Planner планировщик консолидации
type Planner struct {
	baselineRate float64
	tiers        []VolumeTier
	adminCost    float64
}

// NewPlanner создает планировщик. Таблица категорий должна быть
// предварительно проверена через ValidateTiers.
func NewPlanner(baselineRate float64, tiers []VolumeTier, adminCost float64) *Planner {
	if baselineRate < 0 {
		baselineRate = DefaultBaselineDiscountRate
	}
	if tiers == nil {
		tiers = DefaultVolumeTiers()
	}
	if adminCost < 0 {
		adminCost = DefaultPerVendorAdminCost
	}

	return &Planner{
		baselineRate: baselineRate,
		tiers:        tiers,
		adminCost:    adminCost,
	}
}

// Plan оценивает выгоду каждой пары дубликатов и возвращает список,
// отсортированный по приоритету. Отсутствующая запись в карте расходов
// трактуется как нулевой расход, а не ошибка.
//
// Сортировка полная и детерминированная: приоритет по убыванию, затем
// объединенный расход по убыванию, затем пара ID лексикографически -
// результат воспроизводим между прогонами на одинаковом входе.
func (p *Planner) Plan(pairs []normalization.DuplicatePair, spend map[string]float64) []ConsolidationOpportunity {
	opportunities := make([]ConsolidationOpportunity, 0, len(pairs))

	for _, pair := range pairs {
		opportunities = append(opportunities, p.evaluate(pair, spend))
	}

	sort.Slice(opportunities, func(i, j int) bool {
		a, b := opportunities[i], opportunities[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.CombinedSpend != b.CombinedSpend {
			return a.CombinedSpend > b.CombinedSpend
		}
		if a.Pair.ID1 != b.Pair.ID1 {
			return a.Pair.ID1 < b.Pair.ID1
		}
		return a.Pair.ID2 < b.Pair.ID2
	})

	slog.Info("consolidation plan built", "pairs", len(pairs), "opportunities", len(opportunities))
	return opportunities
}

// evaluate считает выгоду для одной пары
func (p *Planner) evaluate(pair normalization.DuplicatePair, spend map[string]float64) ConsolidationOpportunity {
	spend1 := spend[pair.ID1]
	spend2 := spend[pair.ID2]
	combined := spend1 + spend2

	baseline := combined * p.baselineRate

	// Переход в категорию: скидка объединенного объема против суммы скидок
	// раздельных объемов. Если консолидация математически ухудшает скидку,
	// прибавка обнуляется - штрафа не бывает.
	individual := spend1*p.TierDiscount(spend1) + spend2*p.TierDiscount(spend2)
	combinedDiscount := combined * p.TierDiscount(combined)
	uplift := combinedDiscount - individual
	if uplift < 0 {
		uplift = 0
	}

	estimated := baseline + uplift + p.adminCost

	return ConsolidationOpportunity{
		Pair:             pair,
		CombinedSpend:    combined,
		BaselineSavings:  baseline,
		VolumeUplift:     uplift,
		OverheadSavings:  p.adminCost,
		EstimatedSavings: estimated,
		PriorityScore:    estimated * pair.ConfidenceScore,
	}
}

// TierDiscount возвращает ставку скидки для годового объема закупок
func (p *Planner) TierDiscount(annualSpend float64) float64 {
	for _, tier := range p.tiers {
		if annualSpend >= tier.Threshold {
			return tier.Discount
		}
	}
	return 0.0
}
