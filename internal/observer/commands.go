package observer

import "github.com/guidekit/guidekit/pkg/domain"

// commandLabels maps host command identifiers to semantic labels for the
// palette's checklist matching. Unmapped commands still produce events, just
// with an empty label.
var commandLabels = map[string]string{
	"SketchCreate":                 "sketch_create",
	"SketchStop":                   "sketch_finish",
	"SketchLine":                   "sketch_line",
	"SketchTwoPointRectangle":      "sketch_rectangle",
	"SketchCenterRectangle":        "sketch_rectangle",
	"SketchCenterDiameterCircle":   "sketch_circle",
	"SketchThreePointArc":          "sketch_arc",
	"SketchSpline":                 "sketch_spline",
	"SketchDimension":              "sketch_dimension",
	"SketchMirror":                 "sketch_mirror",
	"SketchOffset":                 "sketch_offset",
	"SketchTrim":                   "sketch_trim",
	"Extrude":                      "extrude",
	"Revolve":                      "revolve",
	"Sweep":                        "sweep",
	"Loft":                         "loft",
	"Fillet":                       "fillet",
	"Chamfer":                      "chamfer",
	"Shell":                        "shell",
	"Combine":                      "combine",
	"Hole":                         "hole",
	"Mirror":                       "mirror",
	"RectangularPattern":           "pattern_rectangular",
	"CircularPattern":              "pattern_circular",
	"NewComponent":                 "new_component",
	"PrimitiveBox":                 "primitive_box",
	"PrimitiveCylinder":            "primitive_cylinder",
	"OffsetPlaneDefinitionCommand": "construction_plane",
}

// entityEventTypes classifies a timeline entry's concrete entity type into a
// completion event type. Anything unmapped counts as a generic feature.
var entityEventTypes = map[string]domain.CompletionEventType{
	"Sketch":         domain.EventSketchCreated,
	"ExtrudeFeature": domain.EventExtrudeCreated,
	"FilletFeature":  domain.EventFilletCreated,
	"ChamferFeature": domain.EventChamferCreated,
	"RevolveFeature": domain.EventRevolveCreated,
	"SweepFeature":   domain.EventSweepCreated,
	"ShellFeature":   domain.EventShellCreated,
	"BRepBody":       domain.EventBodyCreated,
	"Component":      domain.EventComponentCreated,
	"Occurrence":     domain.EventComponentCreated,
}

// CommandLabel returns the semantic label for a command id, or "".
func CommandLabel(commandID string) string {
	return commandLabels[commandID]
}

// KnownCommand reports whether the command id is in the label table.
func KnownCommand(commandID string) bool {
	_, ok := commandLabels[commandID]
	return ok
}

func classifyEntity(entityType string) domain.CompletionEventType {
	if t, ok := entityEventTypes[entityType]; ok {
		return t
	}
	return domain.EventFeatureCreated
}
