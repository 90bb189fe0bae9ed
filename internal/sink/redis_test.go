package sink

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/shenikar/geo_event_pump/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisSink поднимает miniredis и клиент к нему
func newTestRedisSink(t *testing.T) (service.AppendSink, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStreamSink(client), mr
}

func streamValues(t *testing.T, entry miniredis.StreamEntry) map[string]string {
	t.Helper()
	require.Zero(t, len(entry.Values)%2)
	values := make(map[string]string, len(entry.Values)/2)
	for i := 0; i < len(entry.Values); i += 2 {
		values[entry.Values[i]] = entry.Values[i+1]
	}
	return values
}

func TestRedisStreamSink_Append(t *testing.T) {
	// Подготовка
	sink, mr := newTestRedisSink(t)
	location := models.Location{ID: uuid.New(), Latitude: 55.75, Longitude: 37.61}
	event, err := service.AsJSON(location)
	require.NoError(t, err)

	// Действие
	err = sink.Append(context.Background(), "location", models.ExpectedVersionAny, event)

	// Проверки
	require.NoError(t, err)
	entries, err := mr.Stream("location")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := streamValues(t, entries[0])
	assert.Equal(t, event.ID.String(), values["event_id"])
	assert.Equal(t, "Location", values["event_type"])
	assert.Equal(t, "1", values["is_json"])
	assert.Equal(t, "", values["metadata"])

	decoded, err := service.ParseJSON[models.Location]([]byte(values["data"]))
	require.NoError(t, err)
	assert.Equal(t, location, decoded)
}

func TestRedisStreamSink_ExpectedVersion(t *testing.T) {
	// Подготовка
	sink, mr := newTestRedisSink(t)
	ctx := context.Background()
	newEvent := func() models.EventData {
		return models.EventData{ID: uuid.New(), Type: "Location", IsJSON: true, Data: []byte(`{}`), Metadata: []byte{}}
	}

	// Действие / Проверки
	require.NoError(t, sink.Append(ctx, "location", models.ExpectedVersionNoStream, newEvent()))
	require.NoError(t, sink.Append(ctx, "location", 0, newEvent()))

	err := sink.Append(ctx, "location", 0, newEvent())
	require.ErrorIs(t, err, ErrWrongExpectedVersion)

	err = sink.Append(ctx, "location", models.ExpectedVersionNoStream, newEvent())
	require.ErrorIs(t, err, ErrWrongExpectedVersion)

	entries, err := mr.Stream("location")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRedisStreamSink_BinaryEvent(t *testing.T) {
	sink, mr := newTestRedisSink(t)
	event := models.EventData{ID: uuid.New(), Type: "Blob", IsJSON: false, Data: []byte("raw"), Metadata: []byte("m")}

	err := sink.Append(context.Background(), "blobs", models.ExpectedVersionAny, event)

	require.NoError(t, err)
	entries, err := mr.Stream("blobs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	values := streamValues(t, entries[0])
	assert.Equal(t, "0", values["is_json"])
	assert.Equal(t, "raw", values["data"])
	assert.Equal(t, "m", values["metadata"])
}

func TestRedisStreamSink_ServerError(t *testing.T) {
	sink, mr := newTestRedisSink(t)
	mr.SetError("ERR stream is read only")

	err := sink.Append(context.Background(), "location", models.ExpectedVersionAny,
		models.EventData{ID: uuid.New(), Type: "Location", IsJSON: true, Data: []byte(`{}`)})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongExpectedVersion)
	assert.ErrorContains(t, err, "failed to append event to Redis stream location")
}
