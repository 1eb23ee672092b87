package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/namdoan/escrowd/internal/core/domain"
)

const defaultStream = "escrowd:notifications"

// RedisConfig holds Redis connection configuration for the notification
// stream.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Stream   string `yaml:"stream"`
}

// RedisNotifier appends notifications to a Redis Stream, giving consumers
// an ordered, append-only operation log.
type RedisNotifier struct {
	rdb    *redis.Client
	stream string
}

func NewRedisNotifier(cfg RedisConfig) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	stream := cfg.Stream
	if stream == "" {
		stream = defaultStream
	}
	return &RedisNotifier{rdb: rdb, stream: stream}, nil
}

func (r *RedisNotifier) Emit(ctx context.Context, n domain.Notification) error {
	values := map[string]any{
		"id":         uuid.NewString(),
		"type":       string(n.Type),
		"event_id":   n.EventID.String(),
		"emitted_at": strconv.FormatInt(n.EmittedAt.Unix(), 10),
	}
	switch n.Type {
	case domain.NotificationEventCreated:
		values["organizer"] = string(n.Organizer)
		values["scheduled_at"] = strconv.FormatInt(n.ScheduledAt.Unix(), 10)
		values["deposit_amount"] = strconv.FormatUint(n.DepositAmount, 10)
		values["capacity"] = strconv.Itoa(n.Capacity)
		values["metadata_ref"] = n.MetadataRef
	case domain.NotificationReserved, domain.NotificationAttendeeConfirmed:
		values["attendee"] = string(n.Attendee)
	case domain.NotificationSettled:
		values["payout"] = strconv.FormatUint(n.Payout, 10)
	}

	err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

func (r *RedisNotifier) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisNotifier) Close() error {
	return r.rdb.Close()
}
