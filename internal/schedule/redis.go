package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/payinstr/internal/instruction"
)

const defaultKey = "payinstr:v1:scheduled"

// RedisBook stores scheduled transfers in a Redis sorted set scored by the
// unix time of their execution date.
type RedisBook struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewRedisBook constructs a Redis-backed book under key; an empty key uses
// the default.
func NewRedisBook(client *redis.Client, key string, logger *slog.Logger) *RedisBook {
	if key == "" {
		key = defaultKey
	}
	return &RedisBook{client: client, key: key, logger: logger}
}

// Add stores the entry. Entries with identical content collapse into one member.
func (b *RedisBook) Add(ctx context.Context, entry Entry) error {
	date, ok := instruction.ExecutionDate(entry.ExecuteBy)
	if !ok {
		return ErrInvalidExecuteBy
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode scheduled transfer: %w", err)
	}
	if err := b.client.ZAdd(ctx, b.key, redis.Z{Score: float64(date.Unix()), Member: string(payload)}).Err(); err != nil {
		return fmt.Errorf("store scheduled transfer: %w", err)
	}
	return nil
}

// Due returns entries due on or before day, earliest first. Members that no
// longer decode are skipped and logged.
func (b *RedisBook) Due(ctx context.Context, day time.Time) ([]Entry, error) {
	members, err := b.client.ZRangeByScore(ctx, b.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(dayStart(day).Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read scheduled transfers: %w", err)
	}

	out := make([]Entry, 0, len(members))
	for _, m := range members {
		var e Entry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			if b.logger != nil {
				b.logger.Warn("failed to decode scheduled transfer", slog.String("key", b.key), slog.Any("error", err))
			}
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
