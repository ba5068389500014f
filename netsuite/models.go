package netsuite

import "strconv"

// suiteQLRequest тело запроса к SuiteQL API
type suiteQLRequest struct {
	Query string `json:"q"`
}

// SuiteQLRow строка результата SuiteQL. Значения обычно строки,
// но числа и булевы значения API тоже может вернуть без кавычек.
type SuiteQLRow map[string]any

// String возвращает значение колонки в строковом виде.
// Отсутствующая колонка и null дают пустую строку.
func (r SuiteQLRow) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		// Булевы поля приводим к формату флагов NetSuite
		if v {
			return "T"
		}
		return "F"
	default:
		return ""
	}
}

// SuiteQLResponse одна страница ответа SuiteQL API
type SuiteQLResponse struct {
	Items        []SuiteQLRow `json:"items"`
	Count        int          `json:"count"`
	HasMore      bool         `json:"hasMore"`
	Offset       int          `json:"offset"`
	TotalResults int          `json:"totalResults"`
}

// VendorRow строка справочника поставщиков из внешней системы
type VendorRow struct {
	ID         string
	Name       string
	Address    string
	Phone      string
	Email      string
	TaxID      string
	IsInactive bool
}

// BillRow строка счета поставщика
type BillRow struct {
	VendorID string
	Amount   float64
	TranDate string
}
