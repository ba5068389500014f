package algorithms

import "strings"

// NGramJaccardSimilarity вычисляет индекс Жаккара по множествам символьных
// N-грамм. Устойчив к частичным различиям внутри токенов, где пословное
// сравнение уже не срабатывает.
func NGramJaccardSimilarity(a, b string, n int) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if n < 1 {
		n = 2
	}
	if a == b {
		return 1.0
	}

	grams1 := ngramSet(a, n)
	grams2 := ngramSet(b, n)

	return jaccardIndex(grams1, grams2)
}

// BigramSimilarity вычисляет схожесть по биграммам (N-граммы с n=2).
func BigramSimilarity(a, b string) float64 {
	return NGramJaccardSimilarity(a, b, 2)
}

// ngramSet генерирует множество N-грамм строки.
// Если строка короче n, она целиком становится единственной граммой -
// иначе короткие названия сравнивались бы с пустыми множествами.
func ngramSet(text string, n int) map[string]bool {
	runes := []rune(strings.ToLower(strings.TrimSpace(text)))
	grams := make(map[string]bool)

	if len(runes) == 0 {
		return grams
	}
	if len(runes) < n {
		grams[string(runes)] = true
		return grams
	}

	for i := 0; i <= len(runes)-n; i++ {
		grams[string(runes[i:i+n])] = true
	}

	return grams
}
