package algorithms

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// TokenSetSimilarity вычисляет индекс Жаккара по множествам токенов.
// Устойчив к перестановке слов: "acme supply co" и "supply co acme" дают 1.0.
func TokenSetSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	set1 := tokenSet(a)
	set2 := tokenSet(b)

	return jaccardIndex(set1, set2)
}

// StemmedTokenSetSimilarity вычисляет индекс Жаккара по стеммированным токенам.
// Сглаживает морфологические вариации в названиях ("consulting"/"consultants").
// Используется как альтернативная функция для подбора порогов.
func StemmedTokenSetSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	set1 := stemTokenSet(tokenSet(a))
	set2 := stemTokenSet(tokenSet(b))

	return jaccardIndex(set1, set2)
}

// tokenSet разбивает строку на множество токенов.
// Разделители - любые символы, кроме букв и цифр.
func tokenSet(text string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]bool, len(words))
	for _, word := range words {
		if word != "" {
			set[word] = true
		}
	}
	return set
}

// stemTokenSet применяет Snowball-стемминг к каждому токену множества.
// При ошибке стемминга токен остается как есть - стемминг только уточняет
// сравнение и никогда не отбрасывает данные.
func stemTokenSet(tokens map[string]bool) map[string]bool {
	stemmed := make(map[string]bool, len(tokens))
	for token := range tokens {
		stem, err := snowball.Stem(token, "english", true)
		if err != nil || stem == "" {
			stemmed[token] = true
			continue
		}
		stemmed[stem] = true
	}
	return stemmed
}

// jaccardIndex вычисляет индекс Жаккара для двух множеств:
// |пересечение| / |объединение|. Для двух пустых множеств возвращает 0.0.
func jaccardIndex(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for key := range set1 {
		if set2[key] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
