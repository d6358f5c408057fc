package queue

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Handler processes one raw message. Returning a *RetryError asks the
// transport to redeliver after the given delay; any other error asks for
// immediate redelivery; nil acknowledges the message.
type Handler func(ctx context.Context, payload []byte) error

// Publisher sends raw payloads to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close()
}

// Subscriber registers a durable handler for a topic. The durable name
// identifies the consumer group so redeliveries survive restarts on
// transports that support it.
type Subscriber interface {
	Subscribe(topic string, durableName string, handler Handler) error
	Close()
}

// RetryError tells the transport to redeliver the message after a delay.
type RetryError struct {
	After time.Duration
	Err   error
}

func (e *RetryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("retry after %s", e.After)
	}
	return fmt.Sprintf("retry after %s: %v", e.After, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// Retry wraps err into a RetryError with the given delay.
func Retry(after time.Duration, err error) *RetryError {
	return &RetryError{After: after, Err: err}
}

// RetryDelay extracts the requested redelivery delay from a handler error.
func RetryDelay(err error) (time.Duration, bool) {
	var re *RetryError
	if errors.As(err, &re) {
		return re.After, true
	}
	return 0, false
}
