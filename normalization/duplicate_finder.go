package normalization

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
)

// DuplicateFinder запускает попарное сравнение записей внутри корзин
// блокирующего индекса. Корзины независимы, поэтому обрабатываются
// фиксированным пулом воркеров; каждый воркер копит результаты в локальном
// срезе, срезы объединяются после завершения - никакой разделяемой
// мутабельной записи во время скоринга.
type DuplicateFinder struct {
	matcher    *VendorMatcher
	workers    int
	exhaustive bool
}

// NewDuplicateFinder создает поиск дубликатов.
// workers <= 0 означает "по числу CPU".
func NewDuplicateFinder(matcher *VendorMatcher, workers int) *DuplicateFinder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &DuplicateFinder{matcher: matcher, workers: workers}
}

// SetExhaustive включает полный перебор без блокировки.
// Имеет смысл для небольших наборов (< ExhaustiveModeLimit) и аудита
// ложноотрицательных результатов блокировки.
func (f *DuplicateFinder) SetExhaustive(exhaustive bool) {
	f.exhaustive = exhaustive
}

// FindDuplicates находит пары дубликатов среди активных записей.
// Записи должны быть уже нормализованы (VendorRecord.Normalize).
//
// Транзитивное замыкание (A~B, B~C => A~C) намеренно НЕ выполняется:
// каждая пара стоит сама по себе, группировка в кластеры - явное решение
// человека при ревью, иначе транзитивное слияние нечетких совпадений
// накапливает ложные срабатывания.
//
// Итоговый список отсортирован детерминированно (уверенность по убыванию,
// затем пара ID) - результат не зависит от числа воркеров.
func (f *DuplicateFinder) FindDuplicates(ctx context.Context, records []*VendorRecord) ([]DuplicatePair, error) {
	active := make([]*VendorRecord, 0, len(records))
	for _, record := range records {
		if !record.IsInactive {
			active = append(active, record)
		}
	}

	var index *BlockingIndex
	if f.exhaustive {
		index = BuildExhaustive(active)
	} else {
		index = BuildBlockingIndex(active)
	}

	buckets := index.Buckets()
	slog.Info("duplicate search started",
		"records", len(active),
		"buckets", index.BucketCount(),
		"pair_estimate", index.PairEstimate(),
		"workers", f.workers,
		"exhaustive", f.exhaustive,
	)

	jobs := make(chan []*VendorRecord)
	results := make([][]DuplicatePair, f.workers)

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			var local []DuplicatePair
			for bucket := range jobs {
				local = append(local, f.scanBucket(bucket)...)
			}
			results[worker] = local
		}(w)
	}

	var err error
feed:
	for _, bucket := range buckets {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- bucket:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}

	var pairs []DuplicatePair
	for _, local := range results {
		pairs = append(pairs, local...)
	}

	sortPairs(pairs)

	slog.Info("duplicate search finished", "pairs", len(pairs))
	return pairs, nil
}

// scanBucket сравнивает все пары внутри одной корзины
func (f *DuplicateFinder) scanBucket(bucket []*VendorRecord) []DuplicatePair {
	var found []DuplicatePair
	for i := 0; i < len(bucket); i++ {
		for j := i + 1; j < len(bucket); j++ {
			if pair, ok := f.matcher.Score(bucket[i], bucket[j]); ok {
				found = append(found, *pair)
			}
		}
	}
	return found
}

// sortPairs сортирует пары: уверенность по убыванию, затем ID1, затем ID2.
// Полный порядок гарантирует байт-в-байт одинаковый результат при любом
// распараллеливании.
func sortPairs(pairs []DuplicatePair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].ConfidenceScore != pairs[j].ConfidenceScore {
			return pairs[i].ConfidenceScore > pairs[j].ConfidenceScore
		}
		if pairs[i].ID1 != pairs[j].ID1 {
			return pairs[i].ID1 < pairs[j].ID1
		}
		return pairs[i].ID2 < pairs[j].ID2
	})
}
