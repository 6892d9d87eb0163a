package promise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompleteOnce(t *testing.T) {
	p := New[int]()
	assert.False(t, p.IsComplete())
	assert.True(t, p.Complete(1))
	assert.False(t, p.Complete(2))
	assert.False(t, p.Fail(errors.New("late")))

	value, err := p.Await(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, value)
}

func TestFail(t *testing.T) {
	p := New[int]()
	cause := errors.New("boom")
	assert.True(t, p.Fail(cause))
	_, err := p.Await(context.Background())
	assert.Equal(t, cause, err)
}

func TestAwaitCancellation(t *testing.T) {
	p := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Await(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	// 迟到的完成会被忽略 不会panic
	assert.True(t, p.Complete(1))
}

func TestAwaitTimeout(t *testing.T) {
	p := New[int]()
	_, err := p.AwaitTimeout(10 * time.Millisecond)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	p.Complete(7)
	value, err := p.AwaitTimeout(0)
	assert.Nil(t, err)
	assert.Equal(t, 7, value)
}

func TestOfAndFailed(t *testing.T) {
	value, err := Of(3).Await(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 3, value)

	cause := errors.New("nope")
	_, err = Failed[int](cause).Await(context.Background())
	assert.Equal(t, cause, err)
}
