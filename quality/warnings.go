package quality

import (
	"fmt"
	"strings"
	"sync"

	"vendoranalysis/normalization"
)

// Warning нефатальное предупреждение о качестве данных одной записи.
// Фиксируется, а не выбрасывается: анализ продолжается, сигнал поля
// просто выпадает из матчинга.
type Warning struct {
	VendorID string `json:"vendor_id"`
	Field    string `json:"field"`
	Reason   string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("vendor %s, field %s: %s", w.VendorID, w.Field, w.Reason)
}

// Collector потокобезопасный накопитель предупреждений
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// NewCollector создает накопитель предупреждений
func NewCollector() *Collector {
	return &Collector{}
}

// Add добавляет предупреждение
func (c *Collector) Add(vendorID, field, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, Warning{VendorID: vendorID, Field: field, Reason: reason})
}

// Warnings возвращает копию накопленных предупреждений
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Warning, len(c.warnings))
	copy(result, c.warnings)
	return result
}

// Count возвращает количество предупреждений
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// Sample возвращает первые n предупреждений для сводки отчета
func (c *Collector) Sample(n int) []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.warnings) {
		n = len(c.warnings)
	}
	result := make([]Warning, n)
	copy(result, c.warnings[:n])
	return result
}

// CheckVendor проверяет одну нормализованную запись и копит предупреждения:
// сырое поле было заполнено, а каноническая форма опустела - значит данные
// непригодны для матчинга (обрезанный налоговый номер, мусорный email).
// Проверка префикса EIN имеет смысл только для страны US.
func (c *Collector) CheckVendor(v *normalization.VendorRecord, rawTaxID, country string) {
	if v.NormalizedName == "" && v.RawName != "" {
		c.Add(v.ID, "name", fmt.Sprintf("name %q normalizes to empty string", v.RawName))
	}
	if v.NormalizedName == "" && v.RawName == "" {
		c.Add(v.ID, "name", "vendor has no name, record excluded from matching")
	}
	if v.TaxID == "" && rawTaxID != "" {
		c.Add(v.ID, "tax_id", fmt.Sprintf("tax id %q is unusable for matching", rawTaxID))
	}
	if v.NormalizedEmail == "" && v.Email != "" {
		c.Add(v.ID, "email", fmt.Sprintf("email %q treated as absent", v.Email))
	}
	if v.NormalizedPhone == "" && v.Phone != "" {
		c.Add(v.ID, "phone", fmt.Sprintf("phone %q has no digits", v.Phone))
	}
	if strings.EqualFold(country, "US") && v.TaxID != "" && !ValidateEIN(v.TaxID) {
		c.Add(v.ID, "tax_id", fmt.Sprintf("tax id %q has an invalid EIN prefix", v.TaxID))
	}
}
