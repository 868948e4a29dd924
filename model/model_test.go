package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_MarkerMatching(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("hello", "greeting response")
	m.SetFallback("fallback response")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "well hello there"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "greeting response", resp.Text)

	resp, err = m.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "something else"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback response", resp.Text)

	assert.Len(t, m.Requests, 2)
}

func TestMockModel_Fail(t *testing.T) {
	m := NewMockModel("test")
	boom := errors.New("boom")
	m.Fail(boom)

	_, err := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "hi"}},
	})
	assert.ErrorIs(t, err, boom)
}

func TestMockModel_CancelledContext(t *testing.T) {
	m := NewMockModel("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, Request{Messages: []Message{{Role: "user", Text: "hi"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test")
	info := m.Info()
	assert.Equal(t, "test", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
