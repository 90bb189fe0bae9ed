package models

import (
	"github.com/google/uuid"
)

// ExpectedVersion - токен оптимистичной блокировки для добавления в поток
type ExpectedVersion int64

const (
	// ExpectedVersionAny отключает проверку версии потока
	ExpectedVersionAny ExpectedVersion = -2
	// ExpectedVersionNoStream требует, чтобы поток был пустым
	ExpectedVersionNoStream ExpectedVersion = -1
)

// EventData - непрозрачное событие для записи в поток
type EventData struct {
	ID       uuid.UUID
	Type     string
	IsJSON   bool
	Data     []byte
	Metadata []byte
}
