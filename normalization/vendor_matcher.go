package normalization

import (
	"fmt"
	"math"

	"vendoranalysis/normalization/algorithms"
)

// DefaultDuplicateThreshold порог уверенности по умолчанию.
// Пороги >= 0.90 консервативны (минимум ложных срабатываний), 0.85 -
// сбалансированный дефолт, < 0.75 - агрессивный режим, все находки
// обязательны к ручной проверке.
const DefaultDuplicateThreshold = 0.85

// SignalWeights веса сигналов многофакторного матчинга.
// Сумма весов должна равняться 1.0 - проверяется при загрузке конфигурации.
type SignalWeights struct {
	Name        float64 `json:"name"`
	Address     float64 `json:"address"`
	TaxID       float64 `json:"tax_id"`
	EmailDomain float64 `json:"email_domain"`
	Phone       float64 `json:"phone"`
}

// DefaultSignalWeights возвращает веса по умолчанию
func DefaultSignalWeights() SignalWeights {
	return SignalWeights{
		Name:        0.50,
		Address:     0.20,
		TaxID:       0.20,
		EmailDomain: 0.05,
		Phone:       0.05,
	}
}

// Validate проверяет корректность весов: неотрицательность и сумму 1.0
func (w SignalWeights) Validate() error {
	for _, pair := range []struct {
		name  string
		value float64
	}{
		{"name", w.Name},
		{"address", w.Address},
		{"tax_id", w.TaxID},
		{"email_domain", w.EmailDomain},
		{"phone", w.Phone},
	} {
		if pair.value < 0 {
			return fmt.Errorf("signal weight %s is negative: %f", pair.name, pair.value)
		}
	}

	sum := w.Name + w.Address + w.TaxID + w.EmailDomain + w.Phone
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("signal weights must sum to 1.0, got %f", sum)
	}
	if w.Name == 0 {
		return fmt.Errorf("name signal weight must be positive")
	}

	return nil
}

// VendorMatcher многофакторный матчер пар поставщиков.
// Объединяет схожесть названий со схожестью адресов, точным совпадением
// налогового номера, домена email и телефона в одну оценку уверенности.
type VendorMatcher struct {
	threshold  float64
	weights    SignalWeights
	nameSim    algorithms.SimilarityFunc
	addressSim algorithms.SimilarityFunc
}

// NewVendorMatcher создает матчер с порогом и весами.
// Для названий по умолчанию используется SequenceSimilarity - баланс
// скорости и точности; функцию можно подменить для подбора параметров.
func NewVendorMatcher(threshold float64, weights SignalWeights) *VendorMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultDuplicateThreshold
	}

	return &VendorMatcher{
		threshold:  threshold,
		weights:    weights,
		nameSim:    algorithms.SequenceSimilarity,
		addressSim: algorithms.SequenceSimilarity,
	}
}

// SetNameSimilarity подменяет функцию схожести названий
func (m *VendorMatcher) SetNameSimilarity(fn algorithms.SimilarityFunc) {
	if fn != nil {
		m.nameSim = fn
	}
}

// SetAddressSimilarity подменяет функцию схожести адресов
func (m *VendorMatcher) SetAddressSimilarity(fn algorithms.SimilarityFunc) {
	if fn != nil {
		m.addressSim = fn
	}
}

// Threshold возвращает порог уверенности матчера
func (m *VendorMatcher) Threshold() float64 {
	return m.threshold
}

// Score сравнивает две записи и возвращает пару дубликатов, если
// итоговая уверенность достигает порога. Второе значение false означает
// "не дубликат" - это обычный исход, а не ошибка.
//
// Уверенность - взвешенное среднее по доступным сигналам: вес сигнала
// попадает в знаменатель только когда данные есть с обеих сторон. Сигнал
// названия учитывается всегда: запись без нормализованного названия дает
// нулевую схожесть и тянет уверенность вниз, но не роняет матчер.
func (m *VendorMatcher) Score(v1, v2 *VendorRecord) (*DuplicatePair, bool) {
	if v1 == nil || v2 == nil || v1.ID == v2.ID {
		return nil, false
	}

	// Каноничный порядок пары: ID1 < ID2
	if v1.ID > v2.ID {
		v1, v2 = v2, v1
	}

	signals := make([]MatchSignal, 0, 5)

	// Название: вес учитывается всегда
	nameValue := 0.0
	if v1.NormalizedName != "" && v2.NormalizedName != "" {
		nameValue = m.nameSim(v1.NormalizedName, v2.NormalizedName)
	}
	signals = append(signals, MatchSignal{
		Kind: SignalName, Value: nameValue, Weight: m.weights.Name, Available: true,
	})

	// Адрес: нечеткая схожесть при наличии с обеих сторон
	addressSignal := MatchSignal{Kind: SignalAddress, Weight: m.weights.Address}
	if v1.NormalizedAddress != "" && v2.NormalizedAddress != "" {
		addressSignal.Available = true
		addressSignal.Value = m.addressSim(v1.NormalizedAddress, v2.NormalizedAddress)
	}
	signals = append(signals, addressSignal)

	// Налоговый номер: точное совпадение
	taxSignal := MatchSignal{Kind: SignalTaxID, Weight: m.weights.TaxID}
	if v1.TaxID != "" && v2.TaxID != "" {
		taxSignal.Available = true
		if v1.TaxID == v2.TaxID {
			taxSignal.Value = 1.0
		}
	}
	signals = append(signals, taxSignal)

	// Домен email: точное совпадение части после '@'
	emailSignal := MatchSignal{Kind: SignalEmailDomain, Weight: m.weights.EmailDomain}
	domain1 := EmailDomain(v1.NormalizedEmail)
	domain2 := EmailDomain(v2.NormalizedEmail)
	if domain1 != "" && domain2 != "" {
		emailSignal.Available = true
		if domain1 == domain2 {
			emailSignal.Value = 1.0
		}
	}
	signals = append(signals, emailSignal)

	// Телефон: точное совпадение нормализованных номеров
	phoneSignal := MatchSignal{Kind: SignalPhone, Weight: m.weights.Phone}
	if v1.NormalizedPhone != "" && v2.NormalizedPhone != "" {
		phoneSignal.Available = true
		if v1.NormalizedPhone == v2.NormalizedPhone {
			phoneSignal.Value = 1.0
		}
	}
	signals = append(signals, phoneSignal)

	confidence := fuseSignals(signals)
	if confidence < m.threshold {
		return nil, false
	}

	return &DuplicatePair{
		ID1:             v1.ID,
		ID2:             v2.ID,
		Name1:           v1.RawName,
		Name2:           v2.RawName,
		Signals:         signals,
		ConfidenceScore: confidence,
	}, true
}

// fuseSignals вычисляет взвешенное среднее по доступным сигналам.
// Деление на сумму доступных весов не дает отсутствующим полям
// (пустой адрес, отсутствующий налоговый номер) занижать уверенность пары.
func fuseSignals(signals []MatchSignal) float64 {
	var weighted, totalWeight float64
	for _, signal := range signals {
		if !signal.Available {
			continue
		}
		weighted += signal.Value * signal.Weight
		totalWeight += signal.Weight
	}

	if totalWeight == 0 {
		return 0.0
	}

	confidence := weighted / totalWeight
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}
