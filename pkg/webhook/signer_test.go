package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignFormat(t *testing.T) {
	sig := Sign("secret", []byte(`{"hello":"world"}`))

	assert.True(t, strings.HasPrefix(sig, "sha256="))
	// "sha256=" plus 64 hex characters
	assert.Len(t, sig, 71)
}

func TestSignDeterministic(t *testing.T) {
	body := []byte(`{"event":"message_processed"}`)

	assert.Equal(t, Sign("s1", body), Sign("s1", body))
	assert.NotEqual(t, Sign("s1", body), Sign("s2", body))
	assert.NotEqual(t, Sign("s1", body), Sign("s1", []byte(`{}`)))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"message_processed"}`)
	sig := Sign("secret", body)

	assert.True(t, VerifySignature("secret", body, sig))
	assert.False(t, VerifySignature("wrong", body, sig))
	assert.False(t, VerifySignature("secret", []byte("tampered"), sig))
	assert.False(t, VerifySignature("secret", body, "sha256=deadbeef"))
}
