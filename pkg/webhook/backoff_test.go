package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDoubles(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: time.Minute}

	assert.Equal(t, 1*time.Second, b.Delay(1))
	assert.Equal(t, 2*time.Second, b.Delay(2))
	assert.Equal(t, 4*time.Second, b.Delay(3))
	assert.Equal(t, 8*time.Second, b.Delay(4))
}

func TestBackoffCapsAtMax(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: 10 * time.Second}

	assert.Equal(t, 10*time.Second, b.Delay(5))
	assert.Equal(t, 10*time.Second, b.Delay(50))
}

func TestBackoffClampsAttempt(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: time.Minute}

	assert.Equal(t, b.Delay(1), b.Delay(0))
	assert.Equal(t, b.Delay(1), b.Delay(-3))
}

func TestBackoffJitterStaysBounded(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: time.Minute, Jitter: 0.5}

	for i := 0; i < 100; i++ {
		d := b.Delay(3)
		assert.GreaterOrEqual(t, d, 4*time.Second)
		assert.LessOrEqual(t, d, 6*time.Second)
	}
}
