package models

import "fmt"

// ============================================================
// Component types
// ============================================================

type ComponentType string

const (
	TypeResistor      ComponentType = "resistor"
	TypeCapacitor     ComponentType = "capacitor"
	TypeInductor      ComponentType = "inductor"
	TypeVoltageSource ComponentType = "voltage_source"
	TypeACSource      ComponentType = "ac_source"
	TypeDCSource      ComponentType = "dc_source"
	TypeGround        ComponentType = "ground"
	TypeDiode         ComponentType = "diode"
	TypeTransistor    ComponentType = "transistor"
	TypeLED           ComponentType = "led"
	TypeSwitch        ComponentType = "switch"
	TypeBulb          ComponentType = "bulb"
	TypeText          ComponentType = "text"
)

// WireTool: ключ инструмента палитры, не тип компонента.
const WireTool = "wire"

// ComponentTypes перечисляет закрытое множество размещаемых типов в порядке палитры.
var ComponentTypes = []ComponentType{
	TypeResistor,
	TypeCapacitor,
	TypeInductor,
	TypeVoltageSource,
	TypeACSource,
	TypeDCSource,
	TypeGround,
	TypeDiode,
	TypeTransistor,
	TypeLED,
	TypeSwitch,
	TypeBulb,
	TypeText,
}

// ParseComponentType принимает только размещаемые типы; "wire" отклоняется.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown component type %q", s)
	}
	return t, nil
}

func (t ComponentType) Valid() bool {
	switch t {
	case TypeResistor, TypeCapacitor, TypeInductor,
		TypeVoltageSource, TypeACSource, TypeDCSource,
		TypeGround, TypeDiode, TypeTransistor,
		TypeLED, TypeSwitch, TypeBulb, TypeText:
		return true
	}
	return false
}

// DefaultValue: подпись по умолчанию для нового компонента.
func (t ComponentType) DefaultValue() string {
	switch t {
	case TypeResistor:
		return "1kΩ"
	case TypeCapacitor:
		return "1µF"
	case TypeInductor:
		return "1mH"
	case TypeACSource:
		return "120V"
	case TypeDCSource:
		return "5V"
	case TypeTransistor:
		return "NPN"
	case TypeText:
		return "Text"
	default:
		return ""
	}
}

// IsVoltageSource: generic, AC и DC источники.
func (t ComponentType) IsVoltageSource() bool {
	switch t {
	case TypeVoltageSource, TypeACSource, TypeDCSource:
		return true
	}
	return false
}

func (t ComponentType) IsGround() bool {
	return t == TypeGround
}
