package notify

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// channelPrefix namespaces per-battle event channels.
const channelPrefix = "battle:"

// Publisher fans committed-mutation events out over Redis pub/sub. The
// transport layer (websocket gateways on any number of instances) subscribes
// to the battle's channel and delivers projections to its clients; the engine
// itself never holds a client connection.
type Publisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPublisher connects a Redis client for event fan-out.
func NewPublisher(addr, password string, db int, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return &Publisher{rdb: rdb, logger: logger}, nil
}

// Channel returns the pub/sub channel for one battle.
func Channel(battleID string) string {
	return channelPrefix + battleID
}

// PublishMutation publishes one mutation event on the battle's channel.
func (p *Publisher) PublishMutation(ctx context.Context, ev game.MutationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding mutation event: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel(ev.BattleID), payload).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", Channel(ev.BattleID), err)
	}
	p.logger.Debug("published mutation event",
		zap.String("battle_id", ev.BattleID),
		zap.String("type", ev.Type),
	)
	return nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
