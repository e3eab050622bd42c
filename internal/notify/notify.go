// Package notify defines the push-notification boundary.
//
// Delivery is best-effort: the core issues one send attempt per recipient,
// waits for the batch to settle, and logs per-recipient failures without
// surfacing them to the operation that triggered the batch.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher delivers one push notification to one device token.
type Dispatcher interface {
	// Send attempts delivery to a single recipient. The metadata map is
	// passed through to the client application unchanged.
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Message is one pending notification in a batch.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// SendAll dispatches every message concurrently and waits for all attempts
// to settle. It returns the number of successful deliveries; failures are
// logged and never returned, because delivery is not a correctness concern
// for the operation that requested it.
func SendAll(ctx context.Context, d Dispatcher, msgs []Message) int {
	if len(msgs) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	results := make([]error, len(msgs))
	for i, msg := range msgs {
		wg.Add(1)
		go func(i int, msg Message) {
			defer wg.Done()
			results[i] = d.Send(ctx, msg.Token, msg.Title, msg.Body, msg.Data)
		}(i, msg)
	}
	wg.Wait()

	delivered := 0
	for i, err := range results {
		if err != nil {
			slog.Warn("notification delivery failed", "title", msgs[i].Title, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Discard is a Dispatcher that logs instead of sending. Used in development
// and tests where no push endpoint is configured.
type Discard struct{}

// Send logs the would-be notification at debug level and reports success.
func (Discard) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	slog.Debug("notification discarded", "title", title, "body", body)
	return nil
}
