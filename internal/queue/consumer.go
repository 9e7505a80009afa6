package queue

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"webappmanager/internal/tasks"
)

const (
	claimPageSize        = 50
	defaultMaxDeliveries = 5
	deadLetterSuffix     = ":dead"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg redis.XMessage) error
}

type Consumer struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	claimInterval time.Duration
	block         time.Duration
	maxDeliveries int64
	deadStream    string
	logger        zerolog.Logger
	handler       MessageHandler
}

func NewConsumer(client *redis.Client, stream, group, consumer string, claimInterval time.Duration, logger zerolog.Logger, handler MessageHandler) *Consumer {
	if claimInterval <= 0 {
		claimInterval = 30 * time.Second
	}
	return &Consumer{
		client:        client,
		stream:        stream,
		group:         group,
		consumer:      consumer,
		claimInterval: claimInterval,
		block:         5 * time.Second,
		maxDeliveries: defaultMaxDeliveries,
		deadStream:    stream + deadLetterSuffix,
		logger:        logger.With().Str("stream", stream).Str("group", group).Logger(),
		handler:       handler,
	}
}

// WithMaxDeliveries sets how many times a message is delivered before it is
// moved to the dead-letter stream. Values below 1 keep the default.
func (c *Consumer) WithMaxDeliveries(n int64) *Consumer {
	if n > 0 {
		c.maxDeliveries = n
	}
	return c
}

// EnsureGroup creates the consumer group and the stream if either is missing.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if _, err := c.Poll(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("stream read error")
				sleep(ctx, 2*time.Second)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.ClaimStalled(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("claim stalled failed")
			}
		default:
		}
	}
}

// Poll reads one batch of new messages and returns how many were acked.
func (c *Consumer) Poll(ctx context.Context) (int, error) {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    10,
		Block:    c.block,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}

	acked := 0
	for _, stream := range result {
		for _, msg := range stream.Messages {
			if c.process(ctx, msg) {
				acked++
			}
		}
	}
	return acked, nil
}

// ClaimStalled takes over messages left pending longer than the claim interval
// and returns how many were handled. It walks the whole pending list; messages
// delivered maxDeliveries times are moved to the dead-letter stream instead.
func (c *Consumer) ClaimStalled(ctx context.Context) (int, error) {
	handled := 0
	start := "-"
	for {
		pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
			Stream: c.stream,
			Group:  c.group,
			Idle:   c.claimInterval,
			Start:  start,
			End:    "+",
			Count:  claimPageSize,
		}).Result()
		if err != nil {
			return handled, err
		}

		for _, entry := range pending {
			if entry.Idle < c.claimInterval {
				continue
			}
			msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
				Stream:   c.stream,
				Group:    c.group,
				Consumer: c.consumer,
				MinIdle:  c.claimInterval,
				Messages: []string{entry.ID},
			}).Result()
			if err != nil {
				c.logger.Error().Err(err).Str("message_id", entry.ID).Msg("claim error")
				continue
			}
			for _, msg := range msgs {
				if entry.RetryCount >= c.maxDeliveries {
					c.deadLetter(ctx, msg, "delivery limit reached")
					continue
				}
				if c.process(ctx, msg) {
					handled++
				}
			}
		}

		if len(pending) < claimPageSize {
			return handled, nil
		}
		next, ok := nextID(pending[len(pending)-1].ID)
		if !ok {
			return handled, nil
		}
		start = next
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) bool {
	if err := c.handler.Handle(ctx, msg); err != nil {
		if errors.Is(err, tasks.ErrMalformed) {
			c.deadLetter(ctx, msg, err.Error())
			return false
		}
		c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("handle message failed")
		return false
	}
	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
		return false
	}
	return true
}

// deadLetter copies msg to the dead-letter stream and acks it on the source.
func (c *Consumer) deadLetter(ctx context.Context, msg redis.XMessage, reason string) {
	values := make(map[string]interface{}, len(msg.Values)+2)
	for k, v := range msg.Values {
		values[k] = v
	}
	values["dead_reason"] = reason
	values["dead_source_id"] = msg.ID

	if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: c.deadStream, Values: values}).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("dead-letter failed")
		return
	}
	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
		return
	}
	c.logger.Warn().Str("message_id", msg.ID).Str("reason", reason).Str("dead_stream", c.deadStream).Msg("message dead-lettered")
}

// nextID returns the smallest stream id greater than id.
func nextID(id string) (string, bool) {
	ms, seq, ok := strings.Cut(id, "-")
	if !ok {
		return "", false
	}
	n, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return "", false
	}
	return ms + "-" + strconv.FormatUint(n+1, 10), true
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
