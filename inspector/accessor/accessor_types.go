// Package accessor resolves glTF accessors into typed, strided views over the
// bytes of a loaded buffer, without copying the buffer.
package accessor

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/qmuntal/gltf"
)

// Component is the numeric primitive of a single accessor component.
// Only the primitives the inspector views decode are listed.
type Component int

const (
	ComponentFloat32 Component = iota
	ComponentUint8
	ComponentUint16
	ComponentUint32
)

// Size returns the byte size of one component.
func (c Component) Size() int {
	switch c {
	case ComponentUint8:
		return 1
	case ComponentUint16:
		return 2
	default:
		return 4
	}
}

// String returns the glTF spelling of the component type.
func (c Component) String() string {
	switch c {
	case ComponentFloat32:
		return "FLOAT"
	case ComponentUint8:
		return "UNSIGNED_BYTE"
	case ComponentUint16:
		return "UNSIGNED_SHORT"
	case ComponentUint32:
		return "UNSIGNED_INT"
	default:
		return fmt.Sprintf("Component(%d)", int(c))
	}
}

// Shape is the element layout of an accessor.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeVec2
	ShapeVec3
	ShapeVec4
	ShapeMat4
)

// Arity returns the number of components per element.
func (s Shape) Arity() int {
	switch s {
	case ShapeVec2:
		return 2
	case ShapeVec3:
		return 3
	case ShapeVec4:
		return 4
	case ShapeMat4:
		return 16
	default:
		return 1
	}
}

// String returns the glTF spelling of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "SCALAR"
	case ShapeVec2:
		return "VEC2"
	case ShapeVec3:
		return "VEC3"
	case ShapeVec4:
		return "VEC4"
	case ShapeMat4:
		return "MAT4"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// componentOf maps a glTF component type onto a supported Component.
func componentOf(ct gltf.ComponentType) (Component, error) {
	switch ct {
	case gltf.ComponentFloat:
		return ComponentFloat32, nil
	case gltf.ComponentUbyte:
		return ComponentUint8, nil
	case gltf.ComponentUshort:
		return ComponentUint16, nil
	case gltf.ComponentUint:
		return ComponentUint32, nil
	default:
		return 0, fmt.Errorf("%w: component type %v", common.ErrUnsupportedFormat, ct)
	}
}

// shapeOf maps a glTF accessor type onto a supported Shape.
// MAT2 and MAT3 carry column padding for small components and are not decoded.
func shapeOf(at gltf.AccessorType) (Shape, error) {
	switch at {
	case gltf.AccessorScalar:
		return ShapeScalar, nil
	case gltf.AccessorVec2:
		return ShapeVec2, nil
	case gltf.AccessorVec3:
		return ShapeVec3, nil
	case gltf.AccessorVec4:
		return ShapeVec4, nil
	case gltf.AccessorMat4:
		return ShapeMat4, nil
	default:
		return 0, fmt.Errorf("%w: accessor type %v", common.ErrUnsupportedFormat, at)
	}
}
