package normalization

import "sort"

// defaultBlockingKeyLength длина блокирующего ключа - первые алфавитно-цифровые
// символы нормализованного названия
const defaultBlockingKeyLength = 3

// ExhaustiveModeLimit размер набора, до которого полный попарный перебор
// еще приемлем и блокировку можно не применять
const ExhaustiveModeLimit = 2000

// BlockingIndex группирует записи в корзины кандидатов по короткому ключу,
// чтобы не сравнивать все пары O(n^2). Ключ - чисто оптимизационный артефакт,
// он никогда не используется как сигнал матчинга.
//
// Известный компромисс: блокировка дает ложноотрицательные результаты, когда
// дубликаты расходятся в первых символах нормализованного названия (например,
// аббревиатура против полного написания первого слова). Для небольших наборов
// (< ExhaustiveModeLimit записей) доступен полный перебор через BuildExhaustive.
type BlockingIndex struct {
	buckets   map[string][]*VendorRecord
	keyLength int
}

// BuildBlockingIndex строит индекс по списку записей.
// Записи с пустым нормализованным названием не индексируются: им не с чем
// агрегироваться, а пустой ключ объединил бы весь мусор в одну корзину.
func BuildBlockingIndex(records []*VendorRecord) *BlockingIndex {
	idx := &BlockingIndex{
		buckets:   make(map[string][]*VendorRecord),
		keyLength: defaultBlockingKeyLength,
	}

	for _, record := range records {
		key := blockingKey(record.NormalizedName, idx.keyLength)
		if key == "" {
			continue
		}
		idx.buckets[key] = append(idx.buckets[key], record)
	}

	return idx
}

// BuildExhaustive строит вырожденный индекс с единственной корзиной -
// полный попарный перебор без блокировки. Для аудита и небольших наборов.
func BuildExhaustive(records []*VendorRecord) *BlockingIndex {
	idx := &BlockingIndex{
		buckets:   make(map[string][]*VendorRecord),
		keyLength: 0,
	}

	bucket := make([]*VendorRecord, 0, len(records))
	for _, record := range records {
		if record.NormalizedName == "" {
			continue
		}
		bucket = append(bucket, record)
	}
	if len(bucket) > 0 {
		idx.buckets["*"] = bucket
	}

	return idx
}

// Buckets возвращает корзины в детерминированном порядке ключей.
// Стабильный порядок нужен для воспроизводимости результата независимо
// от распараллеливания.
func (idx *BlockingIndex) Buckets() [][]*VendorRecord {
	keys := make([]string, 0, len(idx.buckets))
	for key := range idx.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([][]*VendorRecord, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, idx.buckets[key])
	}
	return buckets
}

// BucketCount возвращает количество корзин
func (idx *BlockingIndex) BucketCount() int {
	return len(idx.buckets)
}

// PairEstimate оценивает количество попарных сравнений внутри корзин
func (idx *BlockingIndex) PairEstimate() int {
	total := 0
	for _, bucket := range idx.buckets {
		n := len(bucket)
		total += n * (n - 1) / 2
	}
	return total
}

// blockingKey извлекает первые length алфавитно-цифровых символов строки.
// Строка короче length целиком становится ключом.
func blockingKey(normalized string, length int) string {
	if length <= 0 {
		return "*"
	}

	key := make([]rune, 0, length)
	for _, r := range normalized {
		if r == ' ' {
			continue
		}
		key = append(key, r)
		if len(key) == length {
			break
		}
	}

	return string(key)
}
