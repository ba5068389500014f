package consolidation

import (
	"math"
	"testing"

	"vendoranalysis/normalization"
)

func newTestPlanner() *Planner {
	return NewPlanner(DefaultBaselineDiscountRate, DefaultVolumeTiers(), DefaultPerVendorAdminCost)
}

func pairWithConfidence(id1, id2 string, confidence float64) normalization.DuplicatePair {
	return normalization.DuplicatePair{ID1: id1, ID2: id2, ConfidenceScore: confidence}
}

func TestValidateTiers(t *testing.T) {
	if err := ValidateTiers(DefaultVolumeTiers()); err != nil {
		t.Errorf("default tiers rejected: %v", err)
	}

	unsorted := []VolumeTier{
		{Threshold: 100000, Discount: 0.05},
		{Threshold: 500000, Discount: 0.10},
	}
	if err := ValidateTiers(unsorted); err == nil {
		t.Error("unsorted tiers accepted")
	}

	badDiscount := []VolumeTier{{Threshold: 100000, Discount: 1.5}}
	if err := ValidateTiers(badDiscount); err == nil {
		t.Error("discount > 1 accepted")
	}

	negative := []VolumeTier{{Threshold: -1, Discount: 0.05}}
	if err := ValidateTiers(negative); err == nil {
		t.Error("negative threshold accepted")
	}
}

func TestPlanner_TierDiscount(t *testing.T) {
	planner := newTestPlanner()

	tests := []struct {
		spend float64
		want  float64
	}{
		{600000, 0.10},
		{500000, 0.10},
		{250000, 0.07},
		{100000, 0.05},
		{50000, 0.03},
		{49999, 0.0},
		{0, 0.0},
	}

	for _, tt := range tests {
		if got := planner.TierDiscount(tt.spend); got != tt.want {
			t.Errorf("TierDiscount(%f) = %f, want %f", tt.spend, got, tt.want)
		}
	}
}

// Сценарий: оба поставщика в верхней категории, объединение категорию
// не меняет - прибавки нет, остаются базовая скидка и административная экономия
func TestPlanner_SameBracket(t *testing.T) {
	planner := newTestPlanner()
	spend := map[string]float64{"A": 600000, "B": 700000}

	opportunities := planner.Plan([]normalization.DuplicatePair{pairWithConfidence("A", "B", 1.0)}, spend)
	if len(opportunities) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opportunities))
	}

	opp := opportunities[0]
	if opp.CombinedSpend != 1300000 {
		t.Errorf("CombinedSpend = %f, want 1300000", opp.CombinedSpend)
	}
	// Обе записи и объединенный объем в категории 10%: прибавки нет
	if opp.VolumeUplift != 0 {
		t.Errorf("VolumeUplift = %f, want 0 (same bracket)", opp.VolumeUplift)
	}
	want := 1300000*0.03 + 0 + 750
	if math.Abs(opp.EstimatedSavings-want) > 1e-9 {
		t.Errorf("EstimatedSavings = %f, want %f", opp.EstimatedSavings, want)
	}
}

// Два поставщика по 60000 (категория 3%) при объединении переходят в 5%:
// прибавка положительна
func TestPlanner_MidBracketMerge(t *testing.T) {
	planner := newTestPlanner()
	spend := map[string]float64{"A": 60000, "B": 60000}

	opp := planner.Plan([]normalization.DuplicatePair{pairWithConfidence("A", "B", 1.0)}, spend)[0]

	// uplift = 120000*0.05 - 2*60000*0.03 = 6000 - 3600 = 2400
	if math.Abs(opp.VolumeUplift-2400) > 1e-9 {
		t.Errorf("VolumeUplift = %f, want 2400", opp.VolumeUplift)
	}
}

// Сценарий: объединение переводит пару в более высокую категорию
func TestPlanner_BracketChange(t *testing.T) {
	planner := newTestPlanner()
	spend := map[string]float64{"A": 40000, "B": 70000}

	opportunities := planner.Plan([]normalization.DuplicatePair{pairWithConfidence("A", "B", 0.9)}, spend)
	opp := opportunities[0]

	// A: 40000 ниже всех порогов (0%), B: 70000 -> 3%, объединенные 110000 -> 5%
	// individual = 0 + 70000*0.03 = 2100; combined = 110000*0.05 = 5500; uplift = 3400
	if math.Abs(opp.VolumeUplift-3400) > 1e-9 {
		t.Errorf("VolumeUplift = %f, want 3400", opp.VolumeUplift)
	}
	wantSavings := 110000*0.03 + 3400 + 750
	if math.Abs(opp.EstimatedSavings-wantSavings) > 1e-9 {
		t.Errorf("EstimatedSavings = %f, want %f", opp.EstimatedSavings, wantSavings)
	}
	wantPriority := wantSavings * 0.9
	if math.Abs(opp.PriorityScore-wantPriority) > 1e-9 {
		t.Errorf("PriorityScore = %f, want %f", opp.PriorityScore, wantPriority)
	}
}

// Экономия не бывает отрицательной, даже когда прибавка категории
// математически отрицательна
func TestPlanner_SavingsNonNegative(t *testing.T) {
	// Вырожденная таблица, где объединение ухудшает скидку
	tiers := []VolumeTier{
		{Threshold: 100000, Discount: 0.01},
		{Threshold: 50000, Discount: 0.10},
	}
	if err := ValidateTiers(tiers); err != nil {
		t.Fatalf("test tiers invalid: %v", err)
	}

	planner := NewPlanner(0.0, tiers, 0.0)
	spend := map[string]float64{"A": 60000, "B": 60000}

	opp := planner.Plan([]normalization.DuplicatePair{pairWithConfidence("A", "B", 1.0)}, spend)[0]
	if opp.VolumeUplift != 0 {
		t.Errorf("VolumeUplift = %f, want 0 (floored)", opp.VolumeUplift)
	}
	if opp.EstimatedSavings < 0 {
		t.Errorf("EstimatedSavings = %f, want >= 0", opp.EstimatedSavings)
	}
}

// Отсутствующие записи в карте расходов трактуются как нулевой расход
func TestPlanner_MissingSpend(t *testing.T) {
	planner := newTestPlanner()

	opp := planner.Plan([]normalization.DuplicatePair{pairWithConfidence("A", "B", 1.0)}, map[string]float64{})[0]
	if opp.CombinedSpend != 0 {
		t.Errorf("CombinedSpend = %f, want 0", opp.CombinedSpend)
	}
	// Остается только административная экономия
	if opp.EstimatedSavings != DefaultPerVendorAdminCost {
		t.Errorf("EstimatedSavings = %f, want %f", opp.EstimatedSavings, DefaultPerVendorAdminCost)
	}
}

// Порядок стабилен: приоритет, затем объединенный расход, затем пара ID
func TestPlanner_DeterministicOrder(t *testing.T) {
	planner := NewPlanner(0.03, DefaultVolumeTiers(), 0.0)
	spend := map[string]float64{
		"A": 10000, "B": 10000, // пары A-B и C-D имеют одинаковый приоритет
		"C": 10000, "D": 10000,
		"E": 300000, "F": 300000,
	}

	pairs := []normalization.DuplicatePair{
		pairWithConfidence("C", "D", 0.9),
		pairWithConfidence("E", "F", 0.9),
		pairWithConfidence("A", "B", 0.9),
	}

	opportunities := planner.Plan(pairs, spend)

	if opportunities[0].Pair.ID1 != "E" {
		t.Errorf("first opportunity = %s-%s, want E-F",
			opportunities[0].Pair.ID1, opportunities[0].Pair.ID2)
	}
	if opportunities[1].Pair.ID1 != "A" || opportunities[2].Pair.ID1 != "C" {
		t.Errorf("tie break by id pair failed: got %s then %s",
			opportunities[1].Pair.ID1, opportunities[2].Pair.ID1)
	}
}

func TestAggregateSpend(t *testing.T) {
	bills := []SpendRecord{
		{VendorID: "A", Amount: 100, TranDate: "2025-02-01"},
		{VendorID: "A", Amount: 300, TranDate: "2025-01-15"},
		{VendorID: "B", Amount: 50, TranDate: "2025-03-01"},
	}

	summaries, spendMap := AggregateSpend(bills)

	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	a := summaries[0] // A имеет больший расход и идет первым
	if a.VendorID != "A" || a.TotalSpend != 400 || a.TransactionCount != 2 {
		t.Errorf("summary A = %+v", a)
	}
	if a.AvgTransaction != 200 {
		t.Errorf("AvgTransaction = %f, want 200", a.AvgTransaction)
	}
	if a.FirstTransaction != "2025-01-15" || a.LastTransaction != "2025-02-01" {
		t.Errorf("transaction range = %s..%s", a.FirstTransaction, a.LastTransaction)
	}

	if spendMap["A"] != 400 || spendMap["B"] != 50 {
		t.Errorf("spend map = %v", spendMap)
	}
}

func TestTopVendors(t *testing.T) {
	summaries := []VendorSpendSummary{
		{VendorID: "A", TotalSpend: 300},
		{VendorID: "B", TotalSpend: 200},
		{VendorID: "C", TotalSpend: 100},
	}

	top := TopVendors(summaries, 2)
	if len(top) != 2 || top[0].VendorID != "A" {
		t.Errorf("TopVendors(2) = %+v", top)
	}
	if got := TopVendors(summaries, 0); len(got) != 3 {
		t.Errorf("TopVendors(0) should return all, got %d", len(got))
	}
}
