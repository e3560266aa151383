package geometry

import (
	"math"

	"schematic-editor/internal/circuit/grid"
	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Terminal geometry
// ============================================================

// Смещения выводов до поворота, относительно позиции компонента.
var (
	twoTerminalHorizontal = []models.Point{{X: -grid.Size, Y: 0}, {X: grid.Size, Y: 0}}
	twoTerminalVertical   = []models.Point{{X: 0, Y: -grid.Size}, {X: 0, Y: grid.Size}}
	groundTerminal        = []models.Point{{X: 0, Y: -grid.Size}}
	// база, коллектор, эмиттер
	transistorTerminals = []models.Point{
		{X: -grid.Size, Y: 0},
		{X: grid.Size, Y: -grid.Size},
		{X: grid.Size, Y: grid.Size},
	}
)

func baseOffsets(t models.ComponentType) []models.Point {
	switch t {
	case models.TypeResistor, models.TypeCapacitor, models.TypeInductor,
		models.TypeVoltageSource, models.TypeACSource, models.TypeDCSource,
		models.TypeDiode, models.TypeLED, models.TypeSwitch:
		return twoTerminalHorizontal
	case models.TypeBulb:
		return twoTerminalVertical
	case models.TypeGround:
		return groundTerminal
	case models.TypeTransistor:
		return transistorTerminals
	case models.TypeText:
		return nil
	}
	return nil
}

// Terminals возвращает смещения выводов с учетом поворота (градусы, по часовой
// в экранных координатах, как SVG rotate).
func Terminals(t models.ComponentType, rotation int) []models.Point {
	base := baseOffsets(t)
	if len(base) == 0 {
		return nil
	}
	out := make([]models.Point, len(base))
	for i, p := range base {
		out[i] = rotate(p, rotation)
	}
	return out
}

func rotate(p models.Point, rotation int) models.Point {
	r := rotation % 360
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return p
	case 90:
		return models.Point{X: -p.Y, Y: p.X}
	case 180:
		return models.Point{X: -p.X, Y: -p.Y}
	case 270:
		return models.Point{X: p.Y, Y: -p.X}
	}
	rad := float64(r) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return models.Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// TerminalAt возвращает абсолютную координату вывода с привязкой к компоненту.
func TerminalAt(c models.Component, index int) (models.Point, bool) {
	offsets := Terminals(c.Type, c.Rotation)
	if index < 0 || index >= len(offsets) {
		return models.Point{}, false
	}
	return models.Point{
		X:           c.Position.X + offsets[index].X,
		Y:           c.Position.Y + offsets[index].Y,
		ComponentID: c.ID,
	}, true
}

// AbsoluteTerminals: все выводы компонента в абсолютных координатах.
func AbsoluteTerminals(c models.Component) []models.Point {
	offsets := Terminals(c.Type, c.Rotation)
	out := make([]models.Point, 0, len(offsets))
	for i := range offsets {
		p, _ := TerminalAt(c, i)
		out = append(out, p)
	}
	return out
}

// FindTerminal ищет компонент, вывод которого (после привязки к сетке) совпадает с p.
// При нескольких совпадениях побеждает компонент, добавленный позже (он рисуется сверху).
func FindTerminal(components []models.Component, p models.Point) (string, bool) {
	target := grid.Snap(p)
	for i := len(components) - 1; i >= 0; i-- {
		for _, t := range AbsoluteTerminals(components[i]) {
			if grid.Snap(t).SameCoords(target) {
				return components[i].ID, true
			}
		}
	}
	return "", false
}
