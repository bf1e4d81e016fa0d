package verse

import (
	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/jsondoc"
)

// DetectShape classifies a decoded document root.
func DetectShape(root any) (Shape, error) {
	switch root.(type) {
	case []any:
		return ShapeList, nil
	case *jsondoc.Object:
		return ShapeNested, nil
	default:
		return ShapeUnknown, &errors.UnsupportedShapeError{Type: jsondoc.TypeName(root), Index: -1}
	}
}

// Flatten detects the shape of root and runs the matching flattener.
func Flatten(root any) (Shape, []Row, error) {
	shape, err := DetectShape(root)
	if err != nil {
		return shape, nil, err
	}

	var rows []Row
	switch shape {
	case ShapeList:
		rows, err = FlattenList(root.([]any))
	case ShapeNested:
		rows, err = FlattenNested(root.(*jsondoc.Object))
	}
	if err != nil {
		return shape, nil, err
	}
	return shape, rows, nil
}
