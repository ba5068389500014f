package normalization

import (
	"fmt"
	"strings"
)

// VendorRecord запись поставщика из внешней системы (ERP).
// Поля Normalized* всегда являются чистой функцией от сырых полей и
// пересчитываются через Normalize - их нельзя мутировать независимо.
type VendorRecord struct {
	ID                string  `json:"id"`
	RawName           string  `json:"raw_name"`
	NormalizedName    string  `json:"normalized_name"`
	Address           string  `json:"address"`
	NormalizedAddress string  `json:"normalized_address"`
	Phone             string  `json:"phone"`
	NormalizedPhone   string  `json:"normalized_phone"`
	Email             string  `json:"email"`
	NormalizedEmail   string  `json:"normalized_email"`
	TaxID             string  `json:"tax_id"` // только цифры, каноническая форма
	AnnualSpend       float64 `json:"annual_spend"`
	IsInactive        bool    `json:"is_inactive"`
}

// Normalize пересчитывает все производные поля из сырых.
// Вызывается один раз при загрузке записи, до построения индекса.
// Повторный вызов дает тот же результат (нормализаторы идемпотентны).
func (v *VendorRecord) Normalize(country string) {
	v.NormalizedName = NormalizeName(v.RawName)
	v.NormalizedAddress = NormalizeAddress(v.Address)
	v.NormalizedPhone = NormalizePhone(v.Phone)
	v.NormalizedEmail = NormalizeEmail(v.Email)
	v.TaxID = NormalizeTaxID(v.TaxID, country)
}

// Validate проверяет обязательные поля записи.
// Запись без ID отклоняется до начала анализа (fail-fast): без стабильного
// идентификатора пары дубликатов не имеют смысла.
func (v *VendorRecord) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("vendor record has empty id (raw_name=%q)", v.RawName)
	}
	if v.AnnualSpend < 0 {
		return fmt.Errorf("vendor %s has negative annual spend %f", v.ID, v.AnnualSpend)
	}
	return nil
}

// SignalKind тип сигнала сравнения двух записей
type SignalKind string

const (
	SignalName        SignalKind = "NAME"
	SignalAddress     SignalKind = "ADDRESS"
	SignalTaxID       SignalKind = "TAX_ID"
	SignalEmailDomain SignalKind = "EMAIL_DOMAIN"
	SignalPhone       SignalKind = "PHONE"
)

// MatchSignal один атомарный признак сравнения пары записей.
// Сигналы не кэшируются между парами - вычисляются заново для каждой пары.
type MatchSignal struct {
	Kind      SignalKind `json:"kind"`
	Value     float64    `json:"value"`     // оценка в [0,1]; для точных сигналов 0 или 1
	Weight    float64    `json:"weight"`    // фиксированный вес из конфигурации
	Available bool       `json:"available"` // есть ли данные с обеих сторон
}

// DuplicatePair пара записей, предположительно относящихся к одному
// реальному поставщику. ID1 < ID2 - гарантия уникальности пары,
// (A,B) и (B,A) не могут появиться одновременно.
type DuplicatePair struct {
	ID1             string        `json:"vendor_1_id"`
	ID2             string        `json:"vendor_2_id"`
	Name1           string        `json:"vendor_1_name"`
	Name2           string        `json:"vendor_2_name"`
	Signals         []MatchSignal `json:"signals"`
	ConfidenceScore float64       `json:"confidence_score"`
}
