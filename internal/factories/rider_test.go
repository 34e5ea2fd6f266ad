package factories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiderFactory_CreateRider(t *testing.T) {
	rf := NewRiderFactory(7)
	rider := rf.CreateRider(2)

	assert.NotEmpty(t, rider.ID)
	assert.NotEmpty(t, rider.Name)
	assert.Equal(t, 2, rider.Index)
	assert.Zero(t, rider.BusyUntil)
	assert.Zero(t, rider.Deliveries)
}

func TestRiderFactory_SameSeedSameNames(t *testing.T) {
	a, b := NewRiderFactory(99), NewRiderFactory(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.CreateRider(i).Name, b.CreateRider(i).Name)
	}
}

func TestRiderFactory_UniqueIDs(t *testing.T) {
	rf := NewRiderFactory(1)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := rf.CreateRider(i).ID
		assert.False(t, seen[id], "duplicate rider id %s", id)
		seen[id] = true
	}
}
