// Package httputil — общие помощники для JSON-ответов API.
// Все ответы сервера проходят через эти функции, чтобы формат
// ошибок был единым: {"error": "..."} с нужным HTTP-статусом.
package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Максимальный размер тела запроса — игровому API больше мегабайта не нужно.
const maxBodyBytes = 1 << 20

// WriteJSON сериализует v и отправляет с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// WriteError отправляет ошибку в формате {"error": "..."}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON читает тело запроса в v с ограничением размера.
// Возвращает ошибку при пустом/битом JSON.
func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("некорректный JSON: %w", err)
	}
	return nil
}
