package repository

import (
	"context"

	"CoinScreen/internal/domain/models"
	domrepo "CoinScreen/internal/domain/repository"
	pkgkafka "CoinScreen/pkg/kafka"
)

// KafkaPublisher announces completed leaderboards on a Kafka topic.
// Messages are keyed by direction so consumers see a stable ordering
// per analysis mode.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a Kafka leaderboard publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishLeaderboard(ctx context.Context, res *models.ScreeningResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.Direction), map[string]interface{}{
		"direction":   string(res.Direction),
		"order_by":    string(res.OrderBy),
		"anchor_date": res.AnchorDate,
		"computed_at": res.ComputedAt,
		"timeframes":  res.Timeframes,
		"total_coins": res.TotalCoins,
		"leaderboard": res.Leaderboard,
		"skipped":     res.Skipped,
	})
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
