package service

//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

import (
	"context"

	"github.com/shenikar/geo_event_pump/internal/models"
)

// AppendSink определяет контракт внешнего журнала событий
type AppendSink interface {
	Append(ctx context.Context, stream string, expected models.ExpectedVersion, event models.EventData) error
}
