package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/shenikar/geo_event_pump/internal/service"
)

const wrongVersionReply = "WRONGEXPECTEDVERSION"

// appendExpectedScript атомарно сверяет длину потока с ожидаемой версией и добавляет событие
var appendExpectedScript = redis.NewScript(`
local length = redis.call('XLEN', KEYS[1])
if length ~= tonumber(ARGV[1]) + 1 then
	return redis.error_reply('WRONGEXPECTEDVERSION ' .. (length - 1))
end
return redis.call('XADD', KEYS[1], '*',
	'event_id', ARGV[2],
	'event_type', ARGV[3],
	'is_json', ARGV[4],
	'data', ARGV[5],
	'metadata', ARGV[6])
`)

// RedisStreamSink - реализация AppendSink поверх Redis Streams
type RedisStreamSink struct {
	redisClient *redis.Client
}

// NewRedisStreamSink создает новый RedisStreamSink
func NewRedisStreamSink(client *redis.Client) service.AppendSink {
	return &RedisStreamSink{
		redisClient: client,
	}
}

// Append добавляет событие в поток через XADD
func (s *RedisStreamSink) Append(ctx context.Context, stream string, expected models.ExpectedVersion, event models.EventData) error {
	isJSON := "0"
	if event.IsJSON {
		isJSON = "1"
	}

	if expected == models.ExpectedVersionAny {
		err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: stream,
			Values: []any{
				"event_id", event.ID.String(),
				"event_type", event.Type,
				"is_json", isJSON,
				"data", event.Data,
				"metadata", event.Metadata,
			},
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to append event to Redis stream %s: %w", stream, err)
		}
		return nil
	}

	err := appendExpectedScript.Run(ctx, s.redisClient, []string{stream},
		int64(expected), event.ID.String(), event.Type, isJSON, event.Data, event.Metadata,
	).Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), wrongVersionReply) {
			return fmt.Errorf("stream %s: %s: %w", stream, err.Error(), ErrWrongExpectedVersion)
		}
		return fmt.Errorf("failed to append event to Redis stream %s: %w", stream, err)
	}
	return nil
}
