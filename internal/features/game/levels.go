// Package game — levels.go реализует генератор сложности уровней.
//
// Две ступени:
//  1. BaseLevelConfig — детерминированные кривые по номеру уровня.
//     Прогресс нормализуется в t = (level-1)/(N-1), сложность растёт
//     по степенной кривой t^0.7 (крутое начало, плавный хвост).
//  2. applyDifficulty — глобальная петля обратной связи: если уровень
//     проходят слишком часто, он становится жёстче, слишком редко —
//     мягче. Читает global_stats, ничего не пишет.
package game

import (
	"math"

	"serotonyl.ru/apple-shot/internal/common"
)

// Пороговые уровни для включения механик
const (
	windFromLevel            = 3  // Ветер
	movementFromLevel        = 8  // Движение цели
	obstaclesFromLevel       = 15 // Препятствия
	timeLimitFromLevel       = 22 // Лимит времени
	windVariationFromLevel   = 28 // Ветер меняется в полёте
	movingObstaclesFromLevel = 30 // Движущиеся препятствия
)

// Параметры петли обратной связи по глобальной статистике
const (
	// Минимальная выборка: пока попыток мало, статистике не верим
	minSampleAttempts = 20
	// Уровень проходят слишком часто — делаем жёстче
	highSuccessRate  = 0.65
	harderMultiplier = 1.15
	// Уровень проходят слишком редко — делаем мягче
	lowSuccessRate   = 0.25
	easierMultiplier = 0.85
	// Нижние границы после подстройки
	minTargetSize  = 8
	minTimeLimitMS = 3000
)

// BaseLevelConfig возвращает детерминированную базовую конфигурацию
// уровня для игры из totalLevels уровней.
// Номер уровня должен быть в диапазоне 1..totalLevels —
// иначе common.ErrInvalidLevel.
func BaseLevelConfig(level, totalLevels int) (*LevelConfig, error) {
	if level < 1 || level > totalLevels {
		return nil, common.ErrInvalidLevel
	}

	// Нормализованный прогресс: уровень 1 → 0, последний → 1
	t := float64(level-1) / float64(totalLevels-1)

	// Степенная кривая: 0.7 — тяжёлое начало игры
	difficulty := math.Pow(t, 0.7)

	cfg := &LevelConfig{
		Level: level,
		// Яблоко: 32px → 10px (меньше = сложнее)
		TargetSize: int(math.Round(common.Lerp(32, 10, difficulty))),
		// Дистанция: 350px → 550px (дальше = сложнее)
		Distance: int(math.Round(common.Lerp(350, 550, difficulty))),
		// Стрела: быстрая → медленная (медленнее = сложнее целиться)
		ArrowSpeed: common.Round2(common.Lerp(13, 7, difficulty)),
	}

	if level >= windFromLevel {
		cfg.HasWind = true
		cfg.WindSpeed = common.Round2(common.Lerp(0.5, 4.5,
			float64(level-windFromLevel)/float64(totalLevels-windFromLevel)))
	}

	if level >= movementFromLevel {
		cfg.TargetMovement = true
		cfg.MovementSpeed = common.Round2(common.Lerp(0.8, 3.5,
			float64(level-movementFromLevel)/float64(totalLevels-movementFromLevel)))
	}

	if level >= obstaclesFromLevel {
		cfg.HasObstacles = true
		count := (level-obstaclesFromLevel)/7 + 1
		if count > 3 {
			count = 3
		}
		cfg.ObstacleCount = count
	}

	if level >= timeLimitFromLevel {
		cfg.TimeLimit = int(math.Round(common.Lerp(10000, 4000,
			float64(level-timeLimitFromLevel)/float64(totalLevels-timeLimitFromLevel))))
	}

	cfg.WindVariation = level >= windVariationFromLevel
	cfg.MovingObstacles = level >= movingObstaclesFromLevel

	return cfg, nil
}

// difficultyMultiplier возвращает глобальный множитель сложности уровня
// по агрегированной статистике. 1.0 — без подстройки.
func difficultyMultiplier(stats *LevelStats) float64 {
	if stats == nil || stats.TotalAttempts <= minSampleAttempts {
		return 1.0
	}
	if stats.SuccessRate > highSuccessRate {
		return harderMultiplier
	}
	if stats.SuccessRate < lowSuccessRate {
		return easierMultiplier
	}
	return 1.0
}

// applyDifficulty накладывает глобальный множитель на базовую
// конфигурацию: жёстче = меньше цель, дальше дистанция, быстрее ветер
// и движение, короче лимит времени, медленнее стрела.
func applyDifficulty(base *LevelConfig, stats *LevelStats) *LevelConfig {
	mult := difficultyMultiplier(stats)

	out := *base
	out.TargetSize = int(math.Round(float64(base.TargetSize) / mult))
	if out.TargetSize < minTargetSize {
		out.TargetSize = minTargetSize
	}
	out.Distance = int(math.Round(float64(base.Distance) * mult))
	out.WindSpeed = common.Round2(base.WindSpeed * mult)
	out.MovementSpeed = common.Round2(base.MovementSpeed * mult)
	out.ArrowSpeed = common.Round2(base.ArrowSpeed / mult)
	if base.TimeLimit > 0 {
		out.TimeLimit = int(math.Round(float64(base.TimeLimit) / mult))
		if out.TimeLimit < minTimeLimitMS {
			out.TimeLimit = minTimeLimitMS
		}
	}

	// Подсказки клиенту: как уровень проходят другие
	if stats != nil {
		out.SuccessRate = stats.SuccessRate
		out.TotalAttempts = stats.TotalAttempts
	} else {
		out.SuccessRate = 0.5
	}

	return &out
}
