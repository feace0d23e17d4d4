package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusShipped, true},
		{StatusCompleted, StatusShipped, false},
		{StatusShipped, StatusCompleted, false},
		{StatusCompleted, StatusPending, false},
		{StatusShipped, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusPending, Status("Cancelled"), false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusShipped.Valid())
	assert.False(t, Status("Cancelled").Valid())
	assert.False(t, Status("").Valid())
}
