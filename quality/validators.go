// Package quality проверяет качество данных поставщиков.
// Проблемы качества не прерывают анализ: непригодное поле деградирует до
// отсутствующего сигнала, а предупреждение копится в отчете для заказчика.
package quality

import (
	"regexp"
	"strings"
)

var (
	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateEIN проверяет EIN (федеральный налоговый номер США): ровно 9 цифр
// после удаления разделителей. Контрольной суммы у EIN нет, но первые две
// цифры - валидный код кампуса IRS, 07/08/09/17/37/49/69/70/78/79/89 не
// выдаются.
func ValidateEIN(ein string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(ein)
	if len(cleaned) != 9 || !digitsOnlyPattern.MatchString(cleaned) {
		return false
	}

	invalidPrefixes := map[string]bool{
		"07": true, "08": true, "09": true, "17": true, "37": true,
		"49": true, "69": true, "70": true, "78": true, "79": true, "89": true,
	}
	return !invalidPrefixes[cleaned[:2]]
}

// ValidateEmailFormat проверяет базовый формат email
func ValidateEmailFormat(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidatePhoneUS проверяет телефон США: 10 цифр после нормализации,
// первая цифра кода зоны не 0 и не 1
func ValidatePhoneUS(phone string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(cleaned) == 11 && cleaned[0] == '1' {
		cleaned = cleaned[1:]
	}
	if len(cleaned) != 10 {
		return false
	}
	return cleaned[0] != '0' && cleaned[0] != '1'
}
