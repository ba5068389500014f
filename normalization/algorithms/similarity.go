package algorithms

// SimilarityFunc функция схожести двух строк, возвращает значение в диапазоне [0, 1].
// Все реализации в пакете симметричны (sim(a,b) == sim(b,a)), рефлексивны для
// непустых строк (sim(a,a) == 1.0) и тотальны: пустая строка с любой стороны
// дает 0.0, а не ошибку.
type SimilarityFunc func(a, b string) float64

// SequenceSimilarity вычисляет схожесть двух строк по алгоритму
// Ratcliff/Obershelp: 2*M / (len(a)+len(b)), где M - суммарная длина
// совпадающих блоков. Семантика соответствует difflib.SequenceMatcher.ratio().
// Быстрый и устойчивый к мелким правкам, но чувствителен к порядку токенов.
func SequenceSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	r1 := []rune(a)
	r2 := []rune(b)

	matched := matchingBlocksLength(r1, r2)
	total := len(r1) + len(r2)
	if total == 0 {
		return 0.0
	}

	return 2.0 * float64(matched) / float64(total)
}

// matchingBlocksLength рекурсивно суммирует длины совпадающих блоков:
// находим самую длинную общую подстроку, затем повторяем слева и справа от нее.
func matchingBlocksLength(a, b []rune) int {
	aStart, bStart, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}

	matched := size
	matched += matchingBlocksLength(a[:aStart], b[:bStart])
	matched += matchingBlocksLength(a[aStart+size:], b[bStart+size:])
	return matched
}

// longestMatch находит самую длинную общую подстроку двух срезов рун.
// Возвращает начальные позиции в a и b и длину совпадения.
func longestMatch(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// Индексируем позиции рун второй строки
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	bestA, bestB, bestSize := 0, 0, 0

	// lengths[j] - длина совпадения, заканчивающегося на a[i-1], b[j-1]
	lengths := make(map[int]int)
	for i, r := range a {
		newLengths := make(map[int]int)
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			newLengths[j] = k
			if k > bestSize {
				bestA = i - k + 1
				bestB = j - k + 1
				bestSize = k
			}
		}
		lengths = newLengths
	}

	return bestA, bestB, bestSize
}
