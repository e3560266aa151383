package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"schematic-editor/internal/circuit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitJSON(t *testing.T) {
	s, _, _ := seeded(t)

	out, err := s.CircuitJSON()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "{\n  \"components\": ["), out)

	var f File
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, FormatVersion, f.Version)
	assert.Len(t, f.Components, 2)
	assert.Len(t, f.Wires, 1)
}

func TestCircuitJSON_EmptyDesignHasArrays(t *testing.T) {
	s := newTestStore()

	out, err := s.CircuitJSON()
	require.NoError(t, err)

	assert.Contains(t, out, `"components": []`)
	assert.Contains(t, out, `"wires": []`)
}

func TestLoadDesign_RoundTripRekeysEverything(t *testing.T) {
	src, a, b := seeded(t)
	exported, err := src.CircuitJSON()
	require.NoError(t, err)

	dst := newTestStore()
	require.NoError(t, dst.LoadDesign([]byte(exported)))

	d := dst.Design()
	require.Len(t, d.Components, 2)
	require.Len(t, d.Wires, 1)

	old := map[string]bool{a.ID: true, b.ID: true, src.Design().Wires[0].ID: true}
	for _, c := range d.Components {
		assert.False(t, old[c.ID], "component id %s was not reissued", c.ID)
		assert.True(t, strings.HasPrefix(c.ID, string(c.Type)+"-"))
	}
	assert.False(t, old[d.Wires[0].ID])
	assert.True(t, strings.HasPrefix(d.Wires[0].ID, "wire-"))

	ids := d.Wires[0].ComponentIDs()
	assert.ElementsMatch(t, []string{d.Components[0].ID, d.Components[1].ID}, ids)
}

func TestLoadDesign_TwiceHasNoCollisions(t *testing.T) {
	src, _, _ := seeded(t)
	exported, err := src.CircuitJSON()
	require.NoError(t, err)

	s := newTestStore()
	require.NoError(t, s.LoadDesign([]byte(exported)))
	first := s.Design()
	require.NoError(t, s.LoadDesign([]byte(exported)))
	second := s.Design()

	seen := map[string]bool{}
	for _, d := range []models.Design{first, second} {
		for _, c := range d.Components {
			assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
			seen[c.ID] = true
		}
		for _, w := range d.Wires {
			assert.False(t, seen[w.ID], "duplicate id %s", w.ID)
			seen[w.ID] = true
		}
	}
}

func TestLoadDesign_SnapsCoordinatesAndDropsDanglingRefs(t *testing.T) {
	s := newTestStore()
	doc := `{
		"components": [{"id": "r1", "type": "resistor", "position": {"x": 107, "y": 93}, "rotation": 90, "value": "2kΩ"}],
		"wires": [{"id": "w1", "points": [
			{"x": 89, "y": 101, "componentId": "r1"},
			{"x": 151, "y": 149, "componentId": "gone"}
		], "isFreePath": true}]
	}`

	require.NoError(t, s.LoadDesign([]byte(doc)))

	d := s.Design()
	c := d.Components[0]
	assert.Equal(t, pt(100, 100), c.Position)
	assert.Equal(t, 90, c.Rotation)
	assert.Equal(t, "2kΩ", c.Value)

	w := d.Wires[0]
	assert.True(t, w.IsFreePath)
	assert.Equal(t, models.Point{X: 80, Y: 100, ComponentID: c.ID}, w.Points[0])
	assert.Equal(t, pt(160, 140), w.Points[1])
}

func TestLoadDesign_VersionIsOptional(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.LoadDesign([]byte(`{"components":[],"wires":[]}`)))
	assert.Empty(t, s.Design().Components)
}

func TestLoadDesign_RejectsMalformedFiles(t *testing.T) {
	cases := map[string]string{
		"not json":              `{"components": [`,
		"missing components":    `{"wires": []}`,
		"missing wires":         `{"components": []}`,
		"null components":       `{"components": null, "wires": []}`,
		"object components":     `{"components": {}, "wires": []}`,
		"string wires":          `{"components": [], "wires": "nope"}`,
		"unknown type":          `{"components": [{"id": "a", "type": "flux_capacitor", "position": {"x": 0, "y": 0}, "rotation": 0}], "wires": []}`,
		"wire tool as type":     `{"components": [{"id": "a", "type": "wire", "position": {"x": 0, "y": 0}, "rotation": 0}], "wires": []}`,
		"wire without points":   `{"components": [], "wires": [{"id": "w"}]}`,
		"wire with null points": `{"components": [], "wires": [{"id": "w", "points": null}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			s, _, _ := seeded(t)
			before := s.Design()
			depth := len(s.history.past)

			err := s.LoadDesign([]byte(doc))

			assert.ErrorIs(t, err, ErrInvalidDesign)
			assert.Equal(t, before, s.Design())
			assert.Equal(t, depth, len(s.history.past))
			assert.Equal(t, []models.ValidationError{{Type: models.SeverityError, Message: MsgLoadFailed}}, s.ValidationErrors())
		})
	}
}

func TestLoadDesign_IsUndoableAndResetsUI(t *testing.T) {
	s, a, _ := seeded(t)
	before := s.Design()
	s.SelectComponent(a.ID)
	s.ToggleWireSelect(before.Wires[0].ID)
	s.SetComponentActive(a.ID, true)
	s.ValidateCircuit()
	s.ToggleWireMode()
	s.AddWirePoint(pt(0, 0))

	require.NoError(t, s.LoadDesign([]byte(`{"components":[{"id":"x","type":"switch","position":{"x":0,"y":0},"rotation":0}],"wires":[]}`)))

	st := s.State()
	assert.Empty(t, st.SelectedComponent)
	assert.Empty(t, st.SelectedWire)
	assert.False(t, st.WireMode)
	assert.False(t, st.IsDrawing)
	assert.Nil(t, st.DraggingWire)
	assert.Empty(t, st.ValidationErrors)
	assert.Empty(t, st.ActiveComponents)

	require.True(t, s.Undo())
	assert.Equal(t, before, s.Design())
}

func TestParseFile_KeepsIDs(t *testing.T) {
	d, err := ParseFile([]byte(`{"components":[{"id":"keep-me","type":"led","position":{"x":3,"y":4},"rotation":0}],"wires":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "keep-me", d.Components[0].ID)
	assert.Equal(t, pt(3, 4), d.Components[0].Position)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "circuit-design-2024-03-07.json", ExportFilename(ts))
}
