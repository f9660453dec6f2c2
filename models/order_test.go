package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	statuses := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
		OrderStatusProcessing: {OrderStatusCompleted: true, OrderStatusCancelled: true},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusNoSelfTransition(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled} {
		assert.False(t, s.CanTransitionTo(s))
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}
