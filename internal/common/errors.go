// Package common — errors.go определяет доменные ошибки игры.
// Ошибки — это обычные значения, а не паники: сервисы возвращают их
// наверх, а HTTP-обработчики превращают в коды ответа и поле {error}.
// Тексты совпадают с тем, что клиент показывает игроку, поэтому
// они с заглавной буквы и на английском.
package common

import "errors"

// Ошибки игровой сессии (машина состояний выстрелов)
var (
	// ErrInvalidSession — пара (id, session_hash) не найдена.
	// Session hash — это capability: без него сессию не подделать.
	ErrInvalidSession = errors.New("Invalid session")
	// ErrSessionCompleted — сессия уже завершена, выстрелы не принимаются
	ErrSessionCompleted = errors.New("Session already completed")
	// ErrWrongLevel — присланный уровень не совпадает с текущим уровнем
	// сессии (защита от повторной отправки и пропуска уровней)
	ErrWrongLevel = errors.New("Wrong level")
	// ErrTooFast — выстрел пришёл раньше минимального интервала (анти-чит)
	ErrTooFast = errors.New("Too fast")
	// ErrSessionNotFound — сессия с таким id не существует
	ErrSessionNotFound = errors.New("Session not found")
)

// Ошибки уровней и игроков
var (
	// ErrInvalidLevel — номер уровня вне диапазона 1..TOTAL_LEVELS
	ErrInvalidLevel = errors.New("Invalid level")
	// ErrPlayerNotFound — игрок не найден в базе
	ErrPlayerNotFound = errors.New("Player not found")
	// ErrInvalidUsername — имя игрока не проходит валидацию (2-20 символов)
	ErrInvalidUsername = errors.New("Username must be 2-20 characters")
)

// Ошибки сезонов и призов
var (
	// ErrNoActiveSeason — нет активного сезона (нарушение инварианта:
	// сезон создаётся на старте и при завершении предыдущего)
	ErrNoActiveSeason = errors.New("No active season")
	// ErrSeasonNotFound — сезон с таким id не существует
	ErrSeasonNotFound = errors.New("Season not found")
)

// Ошибки чата
var (
	// ErrInvalidMessage — пустое сообщение или длиннее 200 символов
	ErrInvalidMessage = errors.New("Invalid message")
)
