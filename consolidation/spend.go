package consolidation

import "sort"

// SpendRecord одна транзакция (счет поставщика) из внешней системы
type SpendRecord struct {
	VendorID string  `json:"vendor_id"`
	Amount   float64 `json:"amount"`
	TranDate string  `json:"tran_date"` // ISO-дата, нормализация валюты - забота источника
}

// VendorSpendSummary агрегированный расход по одному поставщику
type VendorSpendSummary struct {
	VendorID         string  `json:"vendor_id"`
	TotalSpend       float64 `json:"total_spend"`
	TransactionCount int     `json:"transaction_count"`
	AvgTransaction   float64 `json:"avg_transaction"`
	FirstTransaction string  `json:"first_transaction"`
	LastTransaction  string  `json:"last_transaction"`
}

// AggregateSpend агрегирует транзакции по поставщикам.
// Возвращает сводки, отсортированные по общему расходу по убыванию
// (при равенстве - по ID), и карту vendor_id -> годовой расход для планировщика.
func AggregateSpend(bills []SpendRecord) ([]VendorSpendSummary, map[string]float64) {
	byVendor := make(map[string]*VendorSpendSummary)

	for _, bill := range bills {
		summary, ok := byVendor[bill.VendorID]
		if !ok {
			summary = &VendorSpendSummary{
				VendorID:         bill.VendorID,
				FirstTransaction: bill.TranDate,
				LastTransaction:  bill.TranDate,
			}
			byVendor[bill.VendorID] = summary
		}

		summary.TotalSpend += bill.Amount
		summary.TransactionCount++
		if bill.TranDate != "" {
			if summary.FirstTransaction == "" || bill.TranDate < summary.FirstTransaction {
				summary.FirstTransaction = bill.TranDate
			}
			if bill.TranDate > summary.LastTransaction {
				summary.LastTransaction = bill.TranDate
			}
		}
	}

	summaries := make([]VendorSpendSummary, 0, len(byVendor))
	spendMap := make(map[string]float64, len(byVendor))
	for _, summary := range byVendor {
		if summary.TransactionCount > 0 {
			summary.AvgTransaction = summary.TotalSpend / float64(summary.TransactionCount)
		}
		summaries = append(summaries, *summary)
		spendMap[summary.VendorID] = summary.TotalSpend
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSpend != summaries[j].TotalSpend {
			return summaries[i].TotalSpend > summaries[j].TotalSpend
		}
		return summaries[i].VendorID < summaries[j].VendorID
	})

	return summaries, spendMap
}

// TopVendors возвращает первые n поставщиков по расходу
func TopVendors(summaries []VendorSpendSummary, n int) []VendorSpendSummary {
	if n <= 0 || n > len(summaries) {
		return summaries
	}
	return summaries[:n]
}
