package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Нормализаторы - чистые функции, приводящие сырые поля поставщика к
// канонической форме для сравнения. Все функции идемпотентны
// (Normalize(Normalize(x)) == Normalize(x)) и никогда не возвращают ошибку:
// некорректный ввод деградирует до пустой канонической строки, которая
// просто исключает соответствующий сигнал из матчинга.

// leadingArticles артикли, отбрасываемые в начале названия
var leadingArticles = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// legalSuffixes организационно-правовые формы, отбрасываемые в конце названия.
// Только сокращенные и юридические формы: полное слово "company" остается
// содержательной частью названия, иначе "abc company" схлопнулось бы в "abc"
// и нормализация потеряла бы идемпотентность.
var legalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"llc":          true,
	"ltd":          true,
	"limited":      true,
	"corp":         true,
	"corporation":  true,
	"co":           true,
	"lp":           true,
	"llp":          true,
	"pllc":         true,
	"plc":          true,
	"gmbh":         true,
	"sa":           true,
	"ag":           true,
	"nv":           true,
	"bv":           true,
	"pty":          true,
}

// addressAbbreviations таблица сокращений для адресов, замена по целым словам
var addressAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"boulevard": "blvd",
	"drive":     "dr",
	"road":      "rd",
	"lane":      "ln",
	"court":     "ct",
	"place":     "pl",
	"circle":    "cir",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"suite":     "ste",
	"apartment": "apt",
	"building":  "bldg",
	"floor":     "fl",
	"room":      "rm",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
	"northeast": "ne",
	"northwest": "nw",
	"southeast": "se",
	"southwest": "sw",
}

// taxIDLengths ожидаемая длина налогового идентификатора по странам.
// Для США это EIN - ровно 9 цифр.
var taxIDLengths = map[string]int{
	"US": 9,
}

// diacriticsRemover убирает диакритические знаки: раскладываем в NFD,
// удаляем комбинируемые знаки, собираем обратно в NFC
var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName приводит название поставщика к канонической форме:
// нижний регистр, без диакритики, без пунктуации, без ведущих артиклей
// и замыкающих организационно-правовых форм.
func NormalizeName(raw string) string {
	text := stripDiacritics(strings.ToLower(raw))
	text = keepAlphanumeric(text)

	tokens := strings.Fields(text)

	// Отбрасываем ведущие артикли, пока остается хотя бы один токен
	for len(tokens) > 1 && leadingArticles[tokens[0]] {
		tokens = tokens[1:]
	}

	// Отбрасываем замыкающие ОПФ. Последний оставшийся токен не трогаем:
	// название, состоящее из одной ОПФ, лучше чем пустое.
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// NormalizeAddress приводит адрес к канонической форме:
// нижний регистр, без пунктуации, стандартные почтовые сокращения.
func NormalizeAddress(raw string) string {
	text := stripDiacritics(strings.ToLower(raw))
	text = keepAlphanumeric(text)

	tokens := strings.Fields(text)
	for i, token := range tokens {
		if abbr, ok := addressAbbreviations[token]; ok {
			tokens[i] = abbr
		}
	}

	return strings.Join(tokens, " ")
}

// NormalizePhone оставляет только цифры. Если получилось 11 цифр с ведущей
// единицей (код страны США), единица отбрасывается. Пустой ввод дает пустую
// строку, а не ошибку.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	phone := digits.String()
	if len(phone) == 11 && phone[0] == '1' {
		phone = phone[1:]
	}

	return phone
}

// NormalizeEmail приводит email к нижнему регистру и обрезает пробелы.
// Строка без '@' и без '.' считается отсутствующим значением и дает пустую
// строку - мусор в поле email не должен участвовать в матчинге.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(email, "@") && !strings.Contains(email, ".") {
		return ""
	}
	return email
}

// NormalizeTaxID оставляет только цифры и проверяет длину для страны.
// Неожиданная длина означает "непригоден для матчинга" и дает пустую строку:
// обрезанный налоговый номер не должен порождать ложные совпадения.
func NormalizeTaxID(raw string, country string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	taxID := digits.String()
	expected, ok := taxIDLengths[strings.ToUpper(country)]
	if !ok {
		// Неизвестная страна: длину не проверяем, оставляем цифры как есть
		return taxID
	}
	if len(taxID) != expected {
		return ""
	}

	return taxID
}

// EmailDomain возвращает домен email (часть после '@') или пустую строку.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

// stripDiacritics удаляет диакритические знаки из строки.
// При ошибке трансформации возвращает исходную строку - нормализация
// никогда не падает на кривом вводе.
func stripDiacritics(text string) string {
	result, _, err := transform.String(diacriticsRemover, text)
	if err != nil {
		return text
	}
	return result
}

// keepAlphanumeric заменяет все небуквенно-цифровые символы на пробелы
// и схлопывает повторяющиеся пробелы.
func keepAlphanumeric(text string) string {
	var builder strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}
