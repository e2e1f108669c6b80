package domain

import (
	"fmt"
	"strings"
)

// MapOption names a base map, weather layer or annotation choice.
type MapOption string

const (
	OptionDefaultMap        MapOption = "default"
	OptionGoogleTerrain     MapOption = "google_terrain"
	OptionTerrain           MapOption = "terrain"
	OptionNone              MapOption = "none"
	OptionTemperature       MapOption = "temperature"
	OptionWindSpeed         MapOption = "wind_speed"
	OptionPrecipitation     MapOption = "precipitation"
	OptionPressure          MapOption = "pressure"
	OptionCitiesAnnotations MapOption = "cities_annotations"
)

// AllMapOptions is the menu order. OptionNone is selectable but not listed.
var AllMapOptions = []MapOption{
	OptionDefaultMap,
	OptionGoogleTerrain,
	OptionTerrain,
	OptionTemperature,
	OptionWindSpeed,
	OptionPrecipitation,
	OptionPressure,
	OptionCitiesAnnotations,
}

var optionLabels = map[MapOption]string{
	OptionDefaultMap:        "Default",
	OptionGoogleTerrain:     "Google terrain map",
	OptionTerrain:           "Terrain map",
	OptionNone:              "None",
	OptionTemperature:       "Temperature",
	OptionWindSpeed:         "Wind speed",
	OptionPrecipitation:     "Precipitation",
	OptionPressure:          "Pressure",
	OptionCitiesAnnotations: "Cities Annotations",
}

// Slot identifies which overlay a selection acts on.
type Slot string

const (
	SlotBase        Slot = "base"
	SlotData        Slot = "data"
	SlotAnnotations Slot = "annotations"
)

// ParseSlot parses a tile-bearing slot name.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(s)) {
	case SlotBase:
		return SlotBase, nil
	case SlotData:
		return SlotData, nil
	}
	return "", fmt.Errorf("unknown slot %q", s)
}

// Label returns the human readable menu title.
func (o MapOption) Label() string {
	if l, ok := optionLabels[o]; ok {
		return l
	}
	return string(o)
}

// Slot returns the slot the option acts on. Unknown options act on the data slot.
func (o MapOption) Slot() Slot {
	switch o {
	case OptionDefaultMap, OptionGoogleTerrain, OptionTerrain:
		return SlotBase
	case OptionCitiesAnnotations:
		return SlotAnnotations
	default:
		return SlotData
	}
}

// Known reports whether o is one of the compile-time options.
func (o MapOption) Known() bool {
	_, ok := optionLabels[o]
	return ok
}

// ParseMapOption accepts an option ID or its label, case-insensitively.
func ParseMapOption(s string) (MapOption, error) {
	needle := strings.TrimSpace(s)
	for o, label := range optionLabels {
		if strings.EqualFold(needle, string(o)) || strings.EqualFold(needle, label) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOption, s)
}

// OptionInfo describes a menu entry.
type OptionInfo struct {
	ID    MapOption `json:"id"`
	Label string    `json:"label"`
	Slot  Slot      `json:"slot"`
}

// OverlayTable maps options to tile URL templates. Options that clear a slot
// (default, none) have no entry.
type OverlayTable map[MapOption]string

// Original third-party templates.
const (
	TemperatureURLTemplate   = "http://maps.owm.io:8099/5735d67f5836286b007625cd/{z}/{x}/{y}?hash=ba22ef4840c7fcb08a7a7b92bf80d1fc"
	PrecipitationURLTemplate = "http://f.maps.owm.io:8099/57456d1237fb4e01009cbb17/{z}/{x}/{y}?hash=ba22ef4840c7fcb08a7a7b92bf80d1fc"
	WindSpeedURLTemplate     = "http://a.maps.owm.io:8099/5735d67f5836286b0076267b/{z}/{x}/{y}?hash=ba22ef4840c7fcb08a7a7b92bf80d1fc"
	PressureURLTemplate      = "http://a.maps.owm.io:8099/5837ee50f77ebe01008ef68d/{z}/{x}/{y}?hash=ba22ef4840c7fcb08a7a7b92bf80d1fc"
	TerrainURLTemplate       = "http://mt.google.com/vt/lyrs=m&p&x={x}&y={y}&z={z}"
	GoogleTerrainURLTemplate = "http://mt.google.com/vt/lyrs=t&x={x}&y={y}&z={z}"
)

// DefaultOverlayTable returns the built-in template table.
func DefaultOverlayTable() OverlayTable {
	return OverlayTable{
		OptionTemperature:   TemperatureURLTemplate,
		OptionWindSpeed:     WindSpeedURLTemplate,
		OptionPrecipitation: PrecipitationURLTemplate,
		OptionPressure:      PressureURLTemplate,
		OptionTerrain:       TerrainURLTemplate,
		OptionGoogleTerrain: GoogleTerrainURLTemplate,
	}
}

// Template returns the URL template for o, if any.
func (t OverlayTable) Template(o MapOption) (string, bool) {
	tpl, ok := t[o]
	return tpl, ok && tpl != ""
}
