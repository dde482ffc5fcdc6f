package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(20)
	s.Push(-10)
	assert.Equal(2, s.Depth())

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(int32(-10), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(int32(20), val)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(int32(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, ok := s.Peek()
	assert.False(ok)

	s.Push(7)
	s.Push(8)
	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(int32(8), val)
	assert.Equal(2, s.Depth())
}

func TestStack_Unbounded(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range 10000 {
		s.Push(int32(i))
		assert.False(s.Full())
	}
	assert.Equal(10000, s.Depth())
}

func TestStack_Limit(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{Limit: 4}
	for i := range 4 {
		assert.False(s.Full())
		s.Push(int32(i))
	}
	assert.True(s.Full())

	s.Pop()
	assert.False(s.Full())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{Limit: 2}
	s.Push(1)
	s.Push(2)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(2, s.Limit)

	s.Reset()
	assert.True(s.Empty())
}
