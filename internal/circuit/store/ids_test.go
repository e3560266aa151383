package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestIDGenerator_MonotonicWithinMillisecond(t *testing.T) {
	g := NewIDGenerator(fixedClock(1700000000000))

	assert.Equal(t, "resistor-1700000000000", g.Next("resistor"))
	assert.Equal(t, "wire-1700000000001", g.Next("wire"))
	assert.Equal(t, "ground-1700000000002", g.Next("ground"))
}

func TestIDGenerator_Batch(t *testing.T) {
	g := NewIDGenerator(fixedClock(1700000000000))
	next := g.Batch()

	a := next("resistor", 0)
	b := next("resistor", 0)
	assert.NotEqual(t, a, b)

	parts := strings.Split(next("wire", 3), "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "wire", parts[0])
	assert.Equal(t, "1700000000000", parts[1])
	assert.Equal(t, "3", parts[2])
	assert.Len(t, parts[3], 9)

	assert.Equal(t, "diode-1700000000001", g.Next("diode"))
}
