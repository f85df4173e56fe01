package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gastos/internal/events"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"amqp closed", amqp091.ErrClosed, true},
		{"wrapped amqp closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"other error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestPublisher_CircuitBreaker(t *testing.T) {
	p := &Publisher{exchangeName: "test_exchange"}

	if p.isCircuitOpen() {
		t.Fatal("circuit should start closed")
	}

	for i := 0; i < maxFailures; i++ {
		p.recordFailure()
	}
	if !p.isCircuitOpen() {
		t.Fatal("circuit should open after max failures")
	}

	p.lastFailure = time.Now().Add(-openTimeout - time.Second)
	if p.isCircuitOpen() {
		t.Fatal("circuit should half-open after the timeout")
	}
	if atomic.LoadInt32(&p.state) != StateHalfOpen {
		t.Fatalf("state = %d, want half-open", p.state)
	}

	// a single failure while half-open reopens it
	p.recordFailure()
	if !p.isCircuitOpen() {
		t.Fatal("circuit should reopen after a half-open failure")
	}

	p.recordSuccess()
	if p.isCircuitOpen() || atomic.LoadInt64(&p.failureCount) != 0 {
		t.Fatal("success should close the circuit and reset failures")
	}
}

func TestPublish_FailsFastWhenCircuitOpen(t *testing.T) {
	p := &Publisher{exchangeName: "test_exchange"}
	atomic.StoreInt32(&p.state, StateOpen)
	p.lastFailure = time.Now()

	err := p.Publish(context.Background(), events.New(events.ExpenseCreated, "1", nil))
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestPublish_RespectsCanceledContext(t *testing.T) {
	p := &Publisher{exchangeName: "test_exchange"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Publish(ctx, events.New(events.ExpenseCreated, "1", nil)); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewPublishing(t *testing.T) {
	e := events.New(events.CategoryRenamed, "3", map[string]string{"name": "Casa"})
	msg, err := newPublishing(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.ContentType != contentTypeJSON || msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("unexpected headers: %+v", msg)
	}
	if msg.Type != "category.renamed" || RoutingKey(e) != "category.renamed" {
		t.Errorf("unexpected type %q", msg.Type)
	}
	if msg.MessageId == "" {
		t.Error("message id should be set")
	}

	var decoded events.Event
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.EntityID != "3" || decoded.Type != events.CategoryRenamed {
		t.Errorf("unexpected body %+v", decoded)
	}
}
