package algorithms

import (
	"math"
	"testing"
)

// similarityFuncs все функции схожести, к которым применяются общие контракты
var similarityFuncs = map[string]SimilarityFunc{
	"sequence":       SequenceSimilarity,
	"levenshtein":    LevenshteinSimilarity,
	"token_set":      TokenSetSimilarity,
	"token_set_stem": StemmedTokenSetSimilarity,
	"bigram":         BigramSimilarity,
	"trigram":        func(a, b string) float64 { return NGramJaccardSimilarity(a, b, 3) },
}

// Контракт: sim(a,b) == sim(b,a) для всех реализаций
func TestSimilarity_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"acme supply", "acme supplies"},
		{"global industries", "industries global"},
		{"abc", "xyz"},
		{"", "something"},
		{"acme", "acme"},
	}

	for name, fn := range similarityFuncs {
		for _, pair := range pairs {
			ab := fn(pair[0], pair[1])
			ba := fn(pair[1], pair[0])
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("%s: sim(%q,%q)=%f != sim(%q,%q)=%f",
					name, pair[0], pair[1], ab, pair[1], pair[0], ba)
			}
		}
	}
}

// Контракт: sim(a,a) == 1.0 для непустых строк, sim("","") == 0.0
func TestSimilarity_Reflexivity(t *testing.T) {
	for name, fn := range similarityFuncs {
		if got := fn("acme company", "acme company"); got != 1.0 {
			t.Errorf("%s: sim(a,a) = %f, want 1.0", name, got)
		}
		if got := fn("", ""); got != 0.0 {
			t.Errorf("%s: sim(\"\",\"\") = %f, want 0.0", name, got)
		}
		if got := fn("acme", ""); got != 0.0 {
			t.Errorf("%s: sim(a,\"\") = %f, want 0.0", name, got)
		}
	}
}

// Контракт: результат всегда в диапазоне [0, 1]
func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different and much longer string"},
		{"acme corp", "acme corporation"},
		{"x", "y"},
		{"123", "321"},
	}

	for name, fn := range similarityFuncs {
		for _, pair := range pairs {
			got := fn(pair[0], pair[1])
			if got < 0.0 || got > 1.0 {
				t.Errorf("%s: sim(%q,%q) = %f out of [0,1]", name, pair[0], pair[1], got)
			}
		}
	}
}

func TestSequenceSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "abcd", 1.0},
		{"abcd", "bcde", 0.75}, // общий блок "bcd": 2*3/8
		{"", "abcd", 0.0},
		{"abcd", "", 0.0},
	}

	for _, tt := range tests {
		got := SequenceSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SequenceSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

// Порядок токенов: sequence чувствителен, token_set - нет
func TestSequenceSimilarity_TokenOrderSensitive(t *testing.T) {
	a := "acme industrial supply"
	b := "supply industrial acme"

	seq := SequenceSimilarity(a, b)
	tok := TokenSetSimilarity(a, b)

	if tok != 1.0 {
		t.Errorf("TokenSetSimilarity(%q, %q) = %f, want 1.0", a, b, tok)
	}
	if seq >= 1.0 {
		t.Errorf("SequenceSimilarity(%q, %q) = %f, expected < 1.0", a, b, seq)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"acme", "acmé", 1}, // руны, не байты
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	// kitten/sitting: 1 - 3/7
	got := LevenshteinSimilarity("kitten", "sitting")
	want := 1.0 - 3.0/7.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LevenshteinSimilarity = %f, want %f", got, want)
	}
}

func TestTokenSetSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"acme supply co", "acme supply", 2.0 / 3.0},
		{"alpha beta", "gamma delta", 0.0},
		{"acme, supply & co", "co supply acme", 1.0}, // пунктуация - разделитель
	}

	for _, tt := range tests {
		got := TokenSetSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TokenSetSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStemmedTokenSetSimilarity(t *testing.T) {
	// Морфологические вариации должны совпадать после стемминга
	got := StemmedTokenSetSimilarity("acme consulting", "acme consultants")
	plain := TokenSetSimilarity("acme consulting", "acme consultants")

	if got <= plain {
		t.Errorf("StemmedTokenSetSimilarity = %f, expected > plain %f", got, plain)
	}
}

func TestNGramJaccardSimilarity(t *testing.T) {
	// Короткая строка становится единственной граммой
	if got := NGramJaccardSimilarity("ab", "ab", 3); got != 1.0 {
		t.Errorf("short string similarity = %f, want 1.0", got)
	}

	// Частичное совпадение внутри токена
	got := BigramSimilarity("acmecorp", "acmecores")
	if got <= 0.0 || got >= 1.0 {
		t.Errorf("BigramSimilarity(acmecorp, acmecores) = %f, want in (0,1)", got)
	}

	// Некорректный n откатывается к биграммам
	if a, b := NGramJaccardSimilarity("acme", "acne", 0), BigramSimilarity("acme", "acne"); a != b {
		t.Errorf("n=0 fallback: got %f, want %f", a, b)
	}
}
