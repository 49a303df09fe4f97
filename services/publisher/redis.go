package publisher

import (
	"context"
	"math/rand/v2"
	"strconv"

	"dario.cat/mergo"
	"github.com/redis/go-redis/v9"

	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/pkg/errors"
)

// RedisOptions configures RedisPublisher
type RedisOptions struct {
	Addr            string
	DB              int
	StreamPrefix    string
	StreamCount     int
	StreamMaxLength int
}

var defaultRedisOptions = RedisOptions{
	StreamPrefix:    "restaurants",
	StreamCount:     1,
	StreamMaxLength: 10000,
}

// RedisPublisher implements Publisher on Redis streams. Messages are spread
// over StreamCount shards named {prefix}:0 .. {prefix}:{StreamCount-1}.
type RedisPublisher struct {
	client *redis.Client
	ctx    context.Context
	opts   RedisOptions
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, opts RedisOptions) *RedisPublisher {
	if opts.StreamCount < 0 {
		opts.StreamCount = 0
	}
	// Zero fields take the defaults
	if err := mergo.Merge(&opts, defaultRedisOptions); err != nil {
		logger.ForPublisher().Warn().Err(err).Msg("Failed to apply default Redis options")
	}

	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})

	return &RedisPublisher{
		client: client,
		ctx:    ctx,
		opts:   opts,
	}
}

// Ping checks that Redis answers
func (p *RedisPublisher) Ping() error {
	if err := p.client.Ping(p.ctx).Err(); err != nil {
		return errors.NewPublisher(p.opts.Addr, "redis unreachable", err)
	}
	return nil
}

// StreamName returns the shard stream for index i
func (p *RedisPublisher) StreamName(i int) string {
	return p.opts.StreamPrefix + ":" + strconv.Itoa(i)
}

// Publish appends message to a randomly chosen shard stream
func (p *RedisPublisher) Publish(key string, message []byte) error {
	stream := p.StreamName(rand.IntN(p.opts.StreamCount))

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"key":     key,
			"payload": string(message),
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(stream, "xadd failed", err)
	}
	return nil
}

// TrimStreams trims every shard to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	if p.opts.StreamMaxLength <= 0 {
		return nil
	}

	for i := 0; i < p.opts.StreamCount; i++ {
		stream := p.StreamName(i)
		if err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.opts.StreamMaxLength)).Err(); err != nil {
			return errors.NewPublisher(stream, "xtrim failed", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
