// Package events announces finished scans to other services.
package events

import (
	"context"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
)

const (
	EventTypeScanCompleted = "scan.completed"
	EventSource            = "options-strategy-scanner"
	SchemaVersion          = "1.0"
)

// Publisher sends scan-completed events.
type Publisher interface {
	PublishScanCompleted(ctx context.Context, resp types.ScanResponse) error
	Close() error
}

// ScanCompletedEvent is the envelope written to the topic.
type ScanCompletedEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	SchemaVersion string            `json:"schema_version"`
	Timestamp     time.Time         `json:"timestamp"`
	Data          ScanCompletedData `json:"data"`
}

// ScanCompletedData summarizes one scan.
type ScanCompletedData struct {
	ScanID           string   `json:"scan_id"`
	StrategyID       string   `json:"strategy_id"`
	Provider         string   `json:"provider"`
	OpportunityCount int      `json:"opportunity_count"`
	FailedTickers    []string `json:"failed_tickers"`
}

// NewScanCompletedEvent builds the envelope for resp.
func NewScanCompletedEvent(eventID string, resp types.ScanResponse, at time.Time) ScanCompletedEvent {
	return ScanCompletedEvent{
		EventID:       eventID,
		EventType:     EventTypeScanCompleted,
		Source:        EventSource,
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC(),
		Data: ScanCompletedData{
			ScanID:           resp.ScanID,
			StrategyID:       resp.StrategyID,
			Provider:         resp.Provider,
			OpportunityCount: len(resp.Opportunities),
			FailedTickers:    resp.FailedTickers(),
		},
	}
}

// NoopPublisher drops every event. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishScanCompleted(context.Context, types.ScanResponse) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NoopPublisher otherwise.
func NewPublisher(cfg config.EventsConfig, log *logger.Logger) (Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return NoopPublisher{}, nil
	}

	return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
}
