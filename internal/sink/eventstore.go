package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/shenikar/geo_event_pump/internal/service"
)

const (
	contentTypeEvents = "application/vnd.eventstore.events+json"
	contentTypeBinary = "application/octet-stream"

	headerExpectedVersion = "ES-ExpectedVersion"
	headerCurrentVersion  = "ES-CurrentVersion"
	headerEventType       = "ES-EventType"
	headerEventID         = "ES-EventId"

	// DefaultMaxConnsPerHost - размер пула соединений, если ограничение не задано
	DefaultMaxConnsPerHost = 64
)

// ErrBinaryMetadata - HTTP API не принимает метаданные для событий в формате octet-stream
var ErrBinaryMetadata = errors.New("metadata is not supported for binary events")

// eventStoreEvent - элемент тела запроса в формате application/vnd.eventstore.events+json
type eventStoreEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// EventStoreSink - реализация AppendSink поверх HTTP API EventStore
type EventStoreSink struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewEventStoreSink создает EventStoreSink. Один http.Client на все добавления,
// не больше maxConns соединений к серверу; остальные запросы ждут свободное соединение.
func NewEventStoreSink(baseURL, user, password string, timeout time.Duration, maxConns int) service.AppendSink {
	if maxConns <= 0 {
		maxConns = DefaultMaxConnsPerHost
	}

	return &EventStoreSink{
		baseURL:  strings.TrimRight(baseURL, "/"),
		user:     user,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxConnsPerHost:     maxConns,
				MaxIdleConnsPerHost: maxConns,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Append записывает событие в конец потока stream
func (s *EventStoreSink) Append(ctx context.Context, stream string, expected models.ExpectedVersion, event models.EventData) error {
	body, contentType, err := encodeEventStoreBody(event)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/streams/%s", s.baseURL, url.PathEscape(stream))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create append request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerExpectedVersion, strconv.FormatInt(int64(expected), 10))
	if !event.IsJSON {
		req.Header.Set(headerEventType, event.Type)
		req.Header.Set(headerEventID, event.ID.String())
	}
	if s.user != "" {
		req.SetBasicAuth(s.user, s.password)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to append event to stream %s: %w", stream, err)
	}
	defer resp.Body.Close()
	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusBadRequest && isWrongExpectedVersion(resp):
		return fmt.Errorf("stream %s at version %s: %w", stream, resp.Header.Get(headerCurrentVersion), ErrWrongExpectedVersion)
	default:
		return fmt.Errorf("append to stream %s failed with status code %d", stream, resp.StatusCode)
	}
}

func encodeEventStoreBody(event models.EventData) ([]byte, string, error) {
	if !event.IsJSON {
		if len(event.Metadata) > 0 {
			return nil, "", fmt.Errorf("event %s: %w", event.ID, ErrBinaryMetadata)
		}
		return event.Data, contentTypeBinary, nil
	}

	item := eventStoreEvent{
		EventID:   event.ID.String(),
		EventType: event.Type,
		Data:      json.RawMessage(event.Data),
	}
	if len(event.Metadata) > 0 {
		item.Metadata = json.RawMessage(event.Metadata)
	}

	body, err := json.Marshal([]eventStoreEvent{item})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}
	return body, contentTypeEvents, nil
}

func isWrongExpectedVersion(resp *http.Response) bool {
	if resp.Header.Get(headerCurrentVersion) != "" {
		return true
	}
	return strings.Contains(strings.ToLower(resp.Status), "wrong expected")
}
