package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/w-h-a/newsagent/consumer"
)

const defaultRetryBackoff = 2 * time.Second

type kafkaConsumer struct {
	options consumer.Options
	group   sarama.ConsumerGroup
	backoff time.Duration
	ready   chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	handler := &groupHandler{
		handler: c.options.Handler,
		onSetup: c.markReady,
	}

	c.wg.Add(2)

	go func() {
		defer c.wg.Done()
		c.consume(ctx, handler)
	}()

	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			slog.ErrorContext(ctx, "kafka consumer error", "error", err)
		}
	}()

	select {
	case <-c.ready:
		slog.InfoContext(ctx, "kafka consumer started", "group", c.options.GroupId, "topic", c.options.Topic)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// consume rejoins the group after every rebalance until ctx is done or the
// group is closed. Failed sessions are retried after a backoff.
func (c *kafkaConsumer) consume(ctx context.Context, handler sarama.ConsumerGroupHandler) {
	for {
		if err := c.group.Consume(ctx, []string{c.options.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
				return
			}

			slog.ErrorContext(ctx, "kafka consume loop failed", "topic", c.options.Topic, "retry_in", c.backoff, "error", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (c *kafkaConsumer) Close() error {
	err := c.group.Close()
	c.wg.Wait()
	return err
}

func (c *kafkaConsumer) markReady() {
	c.once.Do(func() {
		close(c.ready)
	})
}

type groupHandler struct {
	handler consumer.Handler
	onSetup func()
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	if h.onSetup != nil {
		h.onSetup()
	}
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			if err := h.handler.HandleMessage(session.Context(), message.Value); err != nil {
				slog.ErrorContext(
					session.Context(),
					"failed to handle kafka message",
					"topic", message.Topic,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err,
				)
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func newConfig(options consumer.Options) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V3_6_0_0
	config.ClientID = options.ClientId
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true

	if len(options.Username) > 0 {
		config.Net.TLS.Enable = true
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		config.Net.SASL.User = options.Username
		config.Net.SASL.Password = options.Password
	}

	return config
}

func NewConsumer(opts ...consumer.Option) (consumer.Consumer, error) {
	options := consumer.NewOptions(opts...)

	if options.Handler == nil {
		panic("handler is required")
	}

	if len(options.Brokers) == 0 || len(options.Topic) == 0 || len(options.GroupId) == 0 {
		return nil, fmt.Errorf("missing brokers, topic, or group id for kafka consumer")
	}

	group, err := sarama.NewConsumerGroup(options.Brokers, options.GroupId, newConfig(options))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	c := &kafkaConsumer{
		options: options,
		group:   group,
		backoff: defaultRetryBackoff,
		ready:   make(chan struct{}),
	}

	return c, nil
}
