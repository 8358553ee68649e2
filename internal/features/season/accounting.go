// Package season — accounting.go содержит чистую призовую арифметику.
// Функции вынесены из SQL-слоя: репозиторий только читает и пишет
// значения, а доли и перенос считаются здесь.
package season

// PrizeForPosition возвращает приз за место: доля пула на момент
// награждения. Позиции нумеруются с 1; позиция вне списка долей
// приза не даёт.
func PrizeForPosition(prizePool float64, pcts []float64, position int) float64 {
	if position < 1 || position > len(pcts) {
		return 0
	}
	return prizePool * pcts[position-1]
}

// CarryOver возвращает остаток пула для нового сезона: пул минус
// выданные призы, но не меньше нуля. Отрицательный остаток возможен
// только при порче данных — новый сезон в долг не уходит.
func CarryOver(prizePool, totalPrizes float64) float64 {
	if rest := prizePool - totalPrizes; rest > 0 {
		return rest
	}
	return 0
}
