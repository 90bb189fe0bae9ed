package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/shenikar/geo_event_pump/internal/models"
)

var ErrNilValue = errors.New("value is nil")

// AsJSON сериализует значение в JSON-событие. Тип события - имя типа значения.
func AsJSON(value any) (models.EventData, error) {
	if isNil(value) {
		return models.EventData{}, fmt.Errorf("service: could not encode event: %w", ErrNilValue)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return models.EventData{}, fmt.Errorf("service: could not encode event: %w", err)
	}

	return models.EventData{
		ID:       uuid.New(),
		Type:     typeName(value),
		IsJSON:   true,
		Data:     data,
		Metadata: []byte{},
	}, nil
}

// ParseJSON восстанавливает значение из данных события
func ParseJSON[T any](data []byte) (T, error) {
	var value T
	if len(data) == 0 {
		return value, fmt.Errorf("service: could not decode event: %w", ErrNilValue)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("service: could not decode event: %w", err)
	}
	return value, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func typeName(value any) string {
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
