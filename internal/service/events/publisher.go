// Package events publishes trend-detected events to NATS. Publishing
// is best-effort: failures are logged and never reach the pipeline.
package events

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

// trendEvent is the wire shape of a trend-detected event.
type trendEvent struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	TrendScore float64 `json:"trend_score"`
	Text       string  `json:"text"`
}

// Publisher publishes trend events on an events topic.
type Publisher struct {
	conn  *nats.Conn
	topic string
	log   *zap.Logger
}

// NewPublisher creates a publisher. A nil connection disables
// publishing entirely.
func NewPublisher(conn *nats.Conn, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, topic: topic, log: log}
}

// TrendDetected publishes a trend that cleared the detection
// threshold.
func (p *Publisher) TrendDetected(t trend.ScoredTrend) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(trendEvent{
		ID:         t.ID,
		Source:     t.Source,
		Title:      t.Title,
		TrendScore: t.TrendScore,
		Text:       t.TrendText(),
	})
	if err != nil {
		p.log.Warn("marshaling trend event", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("%s.detected", p.topic)
	if err := p.conn.Publish(subject, payload); err != nil {
		p.log.Warn("publishing trend event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
