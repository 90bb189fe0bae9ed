package models

import (
	"time"

	"github.com/google/uuid"
)

// Location - синтетическая точка геолокации, отправляемая в хранилище событий.
// Имя типа записывается в журнал как тип события.
type Location struct {
	ID        uuid.UUID `json:"Id" validate:"required"`
	Latitude  float64   `json:"Latitude" validate:"latitude"`
	Longitude float64   `json:"Longitude" validate:"longitude"`
	CreatedAt time.Time `json:"CreatedAt" validate:"required"`
}
