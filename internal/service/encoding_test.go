package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsJSON_Location(t *testing.T) {
	// Подготовка
	location := models.Location{
		ID:        uuid.MustParse("0b0d8a4e-6c36-4b7e-9a3e-6f7a5f0d2c11"),
		Latitude:  -33.8688,
		Longitude: 151.2093,
		CreatedAt: time.Date(2014, time.July, 1, 0, 0, 3, 0, time.UTC),
	}

	// Действие
	event, err := AsJSON(location)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "Location", event.Type)
	assert.True(t, event.IsJSON)
	assert.NotNil(t, event.Metadata)
	assert.Empty(t, event.Metadata)
	assert.JSONEq(t,
		`{"Id":"0b0d8a4e-6c36-4b7e-9a3e-6f7a5f0d2c11","Latitude":-33.8688,"Longitude":151.2093,"CreatedAt":"2014-07-01T00:00:03Z"}`,
		string(event.Data))
}

func TestAsJSON_PointerUsesElementTypeName(t *testing.T) {
	event, err := AsJSON(&models.Location{ID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, "Location", event.Type)
}

func TestAsJSON_FreshEventIDs(t *testing.T) {
	location := models.Location{ID: uuid.New()}

	first, err := AsJSON(location)
	require.NoError(t, err)
	second, err := AsJSON(location)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Data, second.Data)
}

func TestAsJSON_Nil(t *testing.T) {
	var location *models.Location

	_, err := AsJSON(nil)
	require.ErrorIs(t, err, ErrNilValue)

	_, err = AsJSON(location)
	require.ErrorIs(t, err, ErrNilValue)
}

func TestParseJSON_RoundTrip(t *testing.T) {
	// Подготовка
	location := models.Location{
		ID:        uuid.New(),
		Latitude:  12.345678901234567,
		Longitude: -98.76543210987654,
		CreatedAt: time.Date(2014, time.July, 1, 0, 1, 40, 0, time.UTC),
	}

	// Действие
	event, err := AsJSON(location)
	require.NoError(t, err)
	decoded, err := ParseJSON[models.Location](event.Data)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, location, decoded)
}

func TestParseJSON_Empty(t *testing.T) {
	_, err := ParseJSON[models.Location](nil)

	require.ErrorIs(t, err, ErrNilValue)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON[models.Location]([]byte(`{"Id":`))

	require.Error(t, err)
	assert.ErrorContains(t, err, "could not decode event")
}
