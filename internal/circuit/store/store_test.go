package store

import (
	"testing"
	"time"

	"schematic-editor/internal/circuit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	frozen := time.UnixMilli(1700000000000)
	return New(Options{Now: func() time.Time { return frozen }})
}

func mustAdd(t *testing.T, s *Store, typ models.ComponentType) models.Component {
	t.Helper()
	c, err := s.AddComponent(typ, "")
	require.NoError(t, err)
	return c
}

func pt(x, y float64) models.Point { return models.Point{X: x, Y: y} }

func TestAddComponent(t *testing.T) {
	s := newTestStore()

	c := mustAdd(t, s, models.TypeInductor)

	assert.Equal(t, "inductor-1700000000000", c.ID)
	assert.Equal(t, pt(400, 300), c.Position)
	assert.Equal(t, 0, c.Rotation)
	assert.Equal(t, "1mH", c.Value)
	assert.Equal(t, c.ID, s.SelectedComponent())
	assert.True(t, s.CanUndo())
}

func TestAddComponent_ValuePolicy(t *testing.T) {
	s := newTestStore()

	custom, err := s.AddComponent(models.TypeResistor, "47Ω")
	require.NoError(t, err)
	assert.Equal(t, "47Ω", custom.Value)

	led := mustAdd(t, s, models.TypeLED)
	assert.Empty(t, led.Value)

	_, err = s.AddComponent(models.ComponentType(models.WireTool), "")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Len(t, s.Design().Components, 2)
}

func TestAddComponent_IDsAreUniqueWithinSameMillisecond(t *testing.T) {
	s := newTestStore()

	a := mustAdd(t, s, models.TypeResistor)
	b := mustAdd(t, s, models.TypeResistor)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestUpdateComponent_SnapsPosition(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeResistor)
	value := "10kΩ"

	ok := s.UpdateComponent(c.ID, ComponentUpdate{Position: &models.Point{X: 133, Y: 71, ComponentID: "junk"}, Value: &value})
	require.True(t, ok)

	got, _ := s.Design().Component(c.ID)
	assert.Equal(t, pt(140, 80), got.Position)
	assert.Equal(t, "10kΩ", got.Value)
}

func TestUpdateComponent_DoesNotSnapshot(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeResistor)
	s.Undo()
	s.Redo()
	depth := len(s.history.past)

	s.UpdateComponent(c.ID, ComponentUpdate{Position: &models.Point{X: 20, Y: 20}})

	assert.Equal(t, depth, len(s.history.past))
}

func TestEditComponent_IsOneUndoStep(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeCapacitor)
	value := "10µF"
	rotation := 180

	require.True(t, s.EditComponent(c.ID, ComponentUpdate{Value: &value, Rotation: &rotation}))
	got, _ := s.Design().Component(c.ID)
	assert.Equal(t, "10µF", got.Value)
	assert.Equal(t, 180, got.Rotation)

	require.True(t, s.Undo())
	got, _ = s.Design().Component(c.ID)
	assert.Equal(t, "1µF", got.Value)
	assert.Equal(t, 0, got.Rotation)
}

func TestMissingIDsAreSilentNoOps(t *testing.T) {
	s := newTestStore()
	mustAdd(t, s, models.TypeResistor)
	before := s.Design()
	depth := len(s.history.past)

	assert.False(t, s.UpdateComponent("nope", ComponentUpdate{}))
	assert.False(t, s.EditComponent("nope", ComponentUpdate{}))
	assert.False(t, s.DeleteComponent("nope"))
	assert.False(t, s.RotateComponent("nope"))
	assert.False(t, s.DeleteWire("nope"))
	assert.False(t, s.BeginComponentDrag("nope"))

	assert.Equal(t, before, s.Design())
	assert.Equal(t, depth, len(s.history.past))
}

func TestDeleteComponent_CascadesWires(t *testing.T) {
	s := newTestStore()
	a := mustAdd(t, s, models.TypeVoltageSource)
	b := mustAdd(t, s, models.TypeBulb)
	c := mustAdd(t, s, models.TypeGround)

	require.True(t, s.StartWire(a.ID, pt(420, 300)))
	_, ok := s.CompleteWire(b.ID, pt(400, 320))
	require.True(t, ok)
	require.True(t, s.StartWire(b.ID, pt(400, 280)))
	_, ok = s.CompleteWire(c.ID, pt(400, 280))
	require.True(t, ok)
	require.Len(t, s.Design().Wires, 2)

	s.SelectComponent(b.ID)
	require.True(t, s.DeleteComponent(b.ID))

	d := s.Design()
	assert.Len(t, d.Components, 2)
	for _, w := range d.Wires {
		assert.False(t, w.References(b.ID), "wire %s still references deleted component", w.ID)
	}
	assert.Empty(t, d.Wires)
	assert.Empty(t, s.SelectedComponent())
}

func TestDeleteComponent_KeepsOtherSelection(t *testing.T) {
	s := newTestStore()
	a := mustAdd(t, s, models.TypeResistor)
	b := mustAdd(t, s, models.TypeResistor)

	s.SelectComponent(a.ID)
	s.DeleteComponent(b.ID)

	assert.Equal(t, a.ID, s.SelectedComponent())
}

func TestRotateComponent(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeDiode)

	for _, want := range []int{90, 180, 270, 0, 90} {
		s.RotateComponent(c.ID)
		got, _ := s.Design().Component(c.ID)
		assert.Equal(t, want, got.Rotation)
	}
}

func TestRotateComponent_IsUndoable(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeDiode)

	s.RotateComponent(c.ID)
	require.True(t, s.Undo())

	got, _ := s.Design().Component(c.ID)
	assert.Equal(t, 0, got.Rotation)
}

func TestDeleteWire(t *testing.T) {
	s := newTestStore()
	a := mustAdd(t, s, models.TypeResistor)
	b := mustAdd(t, s, models.TypeResistor)
	s.StartWire(a.ID, pt(0, 0))
	w, ok := s.CompleteWire(b.ID, pt(40, 0))
	require.True(t, ok)

	s.ToggleWireSelect(w.ID)
	assert.Equal(t, w.ID, s.SelectedWire())
	require.True(t, s.DeleteWire(w.ID))

	assert.Empty(t, s.Design().Wires)
	assert.Empty(t, s.SelectedWire())
}

func TestToggleWireSelect(t *testing.T) {
	s := newTestStore()
	a := mustAdd(t, s, models.TypeResistor)
	b := mustAdd(t, s, models.TypeResistor)
	s.StartWire(a.ID, pt(0, 0))
	w, _ := s.CompleteWire(b.ID, pt(40, 0))

	s.ToggleWireSelect(w.ID)
	assert.Equal(t, w.ID, s.SelectedWire())
	s.ToggleWireSelect(w.ID)
	assert.Empty(t, s.SelectedWire())
	s.ToggleWireSelect("missing")
	assert.Empty(t, s.SelectedWire())
}

func TestSelectComponent(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeResistor)

	s.SelectComponent("")
	assert.Empty(t, s.SelectedComponent())
	s.SelectComponent("missing")
	assert.Empty(t, s.SelectedComponent())
	s.SelectComponent(c.ID)
	assert.Equal(t, c.ID, s.SelectedComponent())
}

func TestClearDesign_IsUndoable(t *testing.T) {
	s := newTestStore()
	mustAdd(t, s, models.TypeResistor)
	mustAdd(t, s, models.TypeCapacitor)
	before := s.Design()

	s.ClearDesign()
	assert.Empty(t, s.Design().Components)
	assert.Empty(t, s.SelectedComponent())

	require.True(t, s.Undo())
	assert.Equal(t, before, s.Design())
}

func TestToggleGrid(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.State().ShowGrid)
	assert.False(t, s.ToggleGrid())
	assert.True(t, s.ToggleGrid())
}

func TestSetComponentActive(t *testing.T) {
	s := newTestStore()

	s.SetComponentActive("x", true)
	s.SetComponentActive("a", true)
	assert.Equal(t, []string{"a", "x"}, s.ActiveComponents())
	assert.True(t, s.IsActive("x"))

	s.SetComponentActive("x", false)
	assert.Equal(t, []string{"a"}, s.ActiveComponents())
}

func TestState_IsDetachedCopy(t *testing.T) {
	s := newTestStore()
	c := mustAdd(t, s, models.TypeResistor)

	st := s.State()
	st.Design.Components[0].Value = "mutated"

	got, _ := s.Design().Component(c.ID)
	assert.Equal(t, "1kΩ", got.Value)
	assert.Equal(t, c.ID, st.SelectedComponent)
	assert.True(t, st.CanUndo)
	assert.False(t, st.CanRedo)
	assert.NotNil(t, st.WirePoints)
	assert.NotNil(t, st.ActiveComponents)
}
