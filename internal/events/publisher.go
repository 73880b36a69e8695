package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pdfcheck/internal/check"

	"github.com/segmentio/kafka-go"
)

// CheckEvent is the message published after every completed check.
type CheckEvent struct {
	CheckID   string   `json:"check_id"`
	Filename  string   `json:"filename"`
	Statuses  []string `json:"statuses"`
	PassCount int      `json:"pass_count"`
	FailCount int      `json:"fail_count"`
	Timestamp int64    `json:"ts"`
}

// Publisher writes check events to a Kafka topic. Fire-and-forget: callers
// log errors and move on.
type Publisher struct {
	writer *kafka.Writer
}

// New creates a publisher for the given brokers and topic.
func New(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// NewEvent summarizes a completed check.
func NewEvent(checkID, filename string, results []check.RuleResult) CheckEvent {
	ev := CheckEvent{
		CheckID:   checkID,
		Filename:  filename,
		Timestamp: time.Now().Unix(),
	}
	for _, r := range results {
		ev.Statuses = append(ev.Statuses, r.Status)
		if r.Status == check.StatusPass {
			ev.PassCount++
		} else {
			ev.FailCount++
		}
	}
	return ev
}

// Publish sends one event.
func (p *Publisher) Publish(ctx context.Context, ev CheckEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode check event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.CheckID),
		Value: value,
	})
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
