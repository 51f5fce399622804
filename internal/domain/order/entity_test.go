package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusOutForDelivery},
		{StatusShipped, StatusDelivered},
		{StatusOutForDelivery, StatusDelivered},
		{StatusDelivered, StatusReturned},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusProcessing},
		{StatusReturned, StatusPending},
		{StatusDelivered, StatusDelivered},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	assert.Empty(t, validTransitions[StatusCancelled])
	assert.Empty(t, validTransitions[StatusReturned])
}

func TestTransitionPath(t *testing.T) {
	assert.Equal(t, []Status{StatusProcessing}, transitionPath(StatusPending, StatusProcessing))
	assert.Equal(t,
		[]Status{StatusProcessing, StatusShipped, StatusDelivered},
		transitionPath(StatusPending, StatusDelivered))
	assert.Nil(t, transitionPath(StatusDelivered, StatusPending))
	assert.Nil(t, transitionPath(StatusCancelled, StatusDelivered))
	assert.Nil(t, transitionPath(StatusShipped, StatusShipped))
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: StatusProcessing}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusShipped}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusDelivered}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusCancelled}).CanBeCancelled())
}

func TestGenerateOrderNumber(t *testing.T) {
	n1 := GenerateOrderNumber()
	n2 := GenerateOrderNumber()

	assert.True(t, strings.HasPrefix(n1, "ORD-"))
	assert.NotEqual(t, n1, n2)
}
