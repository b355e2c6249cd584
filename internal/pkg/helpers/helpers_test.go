package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, ParseDuration("30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	clock, set := FixedClock(start)

	assert.Equal(t, start, clock())
	set(start.Add(25 * time.Hour))
	assert.Equal(t, start.Add(25*time.Hour), clock())
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Data Structures", "STRUCT"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Algorithms", "dsa"))
	assert.True(t, AnyContainsFold([]string{"notes", "DSA"}, "dsa"))
	assert.False(t, AnyContainsFold(nil, "dsa"))
}

func TestSortedPair(t *testing.T) {
	a, b := SortedPair("user_b", "user_a")
	assert.Equal(t, "user_a", a)
	assert.Equal(t, "user_b", b)

	a, b = SortedPair("x", "x")
	assert.Equal(t, "x", a)
	assert.Equal(t, "x", b)
}
