// Package control relays dashboard commands to the trading bot over Redis
// pub/sub. The monitor never executes commands itself; it publishes the
// action name on the agreed channel and the bot does the rest.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// Config configures the control-plane publisher.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	Channel  string // pub/sub channel the bot subscribes to
}

// Publisher publishes control commands. A circuit breaker guards the
// publish path so a dead Redis degrades to fast local failures instead of
// a connect timeout on every dashboard click.
type Publisher struct {
	client  *goredis.Client
	channel string
	log     *slog.Logger
	breaker *Breaker
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg Config, log *slog.Logger) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	p := &Publisher{
		client:  client,
		channel: cfg.Channel,
		log:     log,
		breaker: NewBreaker(5, 10*time.Second),
	}
	p.breaker.OnStateChange = func(from, to BreakerState) {
		log.Warn("control publisher breaker state change",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
	log.Info("control publisher connected", slog.String("addr", cfg.Addr), slog.String("channel", cfg.Channel))
	return p, nil
}

// Publish sends one command. The payload is the bare action name; that is
// the contract the bot's subscriber expects.
func (p *Publisher) Publish(ctx context.Context, action string) error {
	return p.breaker.Do(func() error {
		if err := p.client.Publish(ctx, p.channel, action).Err(); err != nil {
			return fmt.Errorf("publish %s: %w", action, err)
		}
		return nil
	})
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
