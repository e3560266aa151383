package grid

import (
	"testing"

	"schematic-editor/internal/circuit/models"

	"github.com/stretchr/testify/assert"
)

func TestSnapValue(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{9.9, 0},
		{10, 20},
		{29, 20},
		{30, 40},
		{-9, 0},
		{-10, 0},
		{-11, -20},
		{400, 400},
		{301, 300},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SnapValue(tc.in), "SnapValue(%v)", tc.in)
	}
}

func TestSnap_Idempotent(t *testing.T) {
	for x := -107.0; x <= 107; x += 3.7 {
		for y := -53.0; y <= 53; y += 4.1 {
			p := models.Point{X: x, Y: y}
			once := Snap(p)
			assert.Equal(t, once, Snap(once))
			assert.True(t, OnGrid(once))
		}
	}
}

func TestSnap_KeepsComponentID(t *testing.T) {
	p := Snap(models.Point{X: 41, Y: -3, ComponentID: "resistor-1"})
	assert.Equal(t, models.Point{X: 40, Y: 0, ComponentID: "resistor-1"}, p)
}
