package services

import (
	"vendoranalysis/normalization"
	"vendoranalysis/normalization/algorithms"
	apperrors "vendoranalysis/server/errors"
)

// SimilarityService синхронное сравнение двух названий поставщиков.
// Используется для ручной проверки спорных пар и подбора порога.
type SimilarityService struct{}

// NewSimilarityService создает новый сервис сравнения
func NewSimilarityService() *SimilarityService {
	return &SimilarityService{}
}

// CompareNames сравнивает два названия всеми алгоритмами.
// Сравнение идет по каноническим формам: сырые строки сначала нормализуются.
func (ss *SimilarityService) CompareNames(name1, name2 string) (map[string]interface{}, error) {
	if name1 == "" || name2 == "" {
		return nil, apperrors.NewValidationError("оба названия обязательны", nil)
	}

	norm1 := normalization.NormalizeName(name1)
	norm2 := normalization.NormalizeName(name2)

	results := map[string]interface{}{
		"sequence":          algorithms.SequenceSimilarity(norm1, norm2),
		"levenshtein":       algorithms.LevenshteinSimilarity(norm1, norm2),
		"token_set":         algorithms.TokenSetSimilarity(norm1, norm2),
		"token_set_stemmed": algorithms.StemmedTokenSetSimilarity(norm1, norm2),
		"bigram":            algorithms.BigramSimilarity(norm1, norm2),
	}

	return map[string]interface{}{
		"name1":            name1,
		"name2":            name2,
		"normalized_name1": norm1,
		"normalized_name2": norm2,
		"results":          results,
	}, nil
}
