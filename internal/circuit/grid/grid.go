package grid

import (
	"math"

	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Grid
// ============================================================

// Size задает шаг сетки; все размещаемые координаты кратны ему.
const Size = 20

// SnapValue округляет до ближайшего узла сетки. Половина округляется вверх
// (к +inf), как Math.round на клиенте: -10 -> 0, 10 -> 20.
func SnapValue(v float64) float64 {
	return math.Floor(v/Size+0.5) * Size
}

// Snap привязывает точку к сетке, сохраняя ComponentID.
func Snap(p models.Point) models.Point {
	p.X = SnapValue(p.X)
	p.Y = SnapValue(p.Y)
	return p
}

// OnGrid сообщает, лежит ли точка уже в узле сетки.
func OnGrid(p models.Point) bool {
	return Snap(p).SameCoords(p)
}
