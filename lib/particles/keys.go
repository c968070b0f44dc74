package particles

/* keys.go contains functions for copying fields into temporary key arrays
that sorting and binning routines consume. */

import (
	"fmt"
)

// FieldKeys copies the values of a scalar field into a freshly allocated
// []float64 key array with one key per particle. Integer fields are converted
// exactly as long as their values stay below 2^53, which is far beyond any
// realistic particle count or ID range used as a sort key.
func FieldKeys(f Field) ([]float64, error) {
	switch x := f.Data().(type) {
	case []float64:
		keys := make([]float64, len(x))
		copy(keys, x)
		return keys, nil
	case []float32:
		keys := make([]float64, len(x))
		for i := range x {
			keys[i] = float64(x[i])
		}
		return keys, nil
	case []int:
		keys := make([]float64, len(x))
		for i := range x {
			keys[i] = float64(x[i])
		}
		return keys, nil
	case []uint32:
		keys := make([]float64, len(x))
		for i := range x {
			keys[i] = float64(x[i])
		}
		return keys, nil
	case []uint64:
		keys := make([]float64, len(x))
		for i := range x {
			keys[i] = float64(x[i])
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("Fields with type %T cannot be used as sort keys: only scalar fields can.", f.Data())
	}
}

// FieldVecKeys copies the values of a 3-vector field into a freshly allocated
// [][3]float64 key array with one 3-vector per particle. It is used to pull
// particle positions out of a collection before spatial binning.
func FieldVecKeys(f Field) ([][3]float64, error) {
	switch x := f.Data().(type) {
	case [][3]float64:
		keys := make([][3]float64, len(x))
		copy(keys, x)
		return keys, nil
	case [][3]float32:
		keys := make([][3]float64, len(x))
		for i := range x {
			for dim := 0; dim < 3; dim++ {
				keys[i][dim] = float64(x[i][dim])
			}
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("Fields with type %T cannot be used as position keys: only 3-vector fields can.", f.Data())
	}
}
