//go:build ignore

// simulate.go — утилита для прогона полной игры против запущенного
// сервера. Регистрирует игрока, стартует сессию и проходит все уровни
// попаданиями с паузой под анти-чит.
// Запуск: go run scripts/simulate.go [http://localhost:3010] [username]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	base := "http://localhost:3010"
	username := "simulator"
	if len(os.Args) > 1 {
		base = os.Args[1]
	}
	if len(os.Args) > 2 {
		username = os.Args[2]
	}

	// Регистрация
	var reg struct {
		Player struct {
			ID int64 `json:"id"`
		} `json:"player"`
	}
	post(base+"/api/register", map[string]interface{}{"username": username}, &reg)
	fmt.Printf("Игрок #%d (%s)\n", reg.Player.ID, username)

	// Старт игры
	var start struct {
		SessionID   int64   `json:"sessionId"`
		SessionHash string  `json:"sessionHash"`
		Fee         float64 `json:"fee"`
	}
	post(base+"/api/start-game", map[string]interface{}{"playerId": reg.Player.ID}, &start)
	fmt.Printf("Сессия #%d, комиссия %.2f\n", start.SessionID, start.Fee)

	// Проходим уровни попаданиями
	level := 1
	for {
		var shot struct {
			NextLevel *int     `json:"nextLevel"`
			GameOver  bool     `json:"gameOver"`
			Completed bool     `json:"completed"`
			Position  *int     `json:"position"`
			Prize     *float64 `json:"prize"`
		}
		post(base+"/api/submit-shot", map[string]interface{}{
			"sessionId":   start.SessionID,
			"sessionHash": start.SessionHash,
			"level":       level,
			"hit":         true,
		}, &shot)

		if shot.Completed {
			fmt.Println("Игра пройдена!")
			if shot.Position != nil {
				fmt.Printf("Место %d, приз %.4f\n", *shot.Position, *shot.Prize)
			}
			return
		}
		if shot.GameOver || shot.NextLevel == nil {
			fmt.Println("Игра окончена досрочно")
			return
		}

		level = *shot.NextLevel
		fmt.Printf("Уровень %d\n", level)

		// Пауза под минимальный интервал между выстрелами
		time.Sleep(900 * time.Millisecond)
	}
}

func post(url string, body interface{}, out interface{}) {
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		fmt.Printf("Ошибка запроса %s: %v\n", url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		fmt.Printf("%s → %d: %s\n", url, resp.StatusCode, apiErr.Error)
		os.Exit(1)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fmt.Printf("Ошибка разбора ответа %s: %v\n", url, err)
		os.Exit(1)
	}
}
