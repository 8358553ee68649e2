// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: округление игровых параметров, форматирование сумм SOL.
package common

import (
	"fmt"
	"math"
)

// Round2 округляет число до двух знаков после запятой.
// Используется для игровых параметров (скорость ветра, стрелы и т.д.),
// чтобы клиент получал стабильные значения без длинных хвостов float.
//
// Примеры:
//
//	Round2(4.456) → 4.46
//	Round2(0.1+0.2) → 0.3
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatSOL форматирует сумму в SOL для логов и активити-ленты.
// Пример: FormatSOL(0.123456789) → "0.1235 SOL"
func FormatSOL(amount float64) string {
	return fmt.Sprintf("%.4f SOL", amount)
}

// Clamp ограничивает значение диапазоном [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp — линейная интерполяция между a и b по параметру t,
// t обрезается до [0, 1] (как в кривых сложности уровней).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp(t, 0, 1)
}
