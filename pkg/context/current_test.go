package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	current := NewCurrent()
	current.Set("request_id", "abc")
	current.Set("attempt", 2)

	id, ok := current.GetString("request_id")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = current.GetString("attempt")
	assert.False(t, ok)

	all := current.All()
	all["request_id"] = "changed"
	assert.Equal(t, "abc", current.Get("request_id"))
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	current := NewCurrent()
	current.Set("request_id", "req-1")

	ctx := WithCurrent(context.Background(), current)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Same(t, current, GetCurrent(ctx))
	assert.NotNil(t, GetCurrent(context.Background()))
}
