/*package particles contains functions for manipulating particles with generic
fields.*/
package particles

/* This file contains functions for managing particles and their fields. */

import (
	"fmt"
)

// Particles represents the particles in a simulation or chunk of a simulation.
// It maps the name of each field (e.g. 'id', 'x', 'phi', etc.) to a Field.
type Particles map[string]Field

// MemberCount returns the number of fields stored for each particle.
func (p Particles) MemberCount() int { return len(p) }

// Size returns the number of particles in p. Every field must store one value
// per particle, so Size returns an error if two fields have different lengths.
func (p Particles) Size() (int, error) {
	n := -1
	for name, f := range p {
		if n == -1 {
			n = f.Len()
		} else if f.Len() != n {
			return 0, fmt.Errorf("The field '%s' has length %d, but other fields have length %d.", name, f.Len(), n)
		}
	}
	if n == -1 { n = 0 }
	return n, nil
}

// Field is a generic interface around one particle property.
type Field interface {
	// Len returns the length of the underlying array.
	Len() int
	// Data returns the underlying array as an interface{}.
	Data() interface{}
	// Transfer transfers data from the Field to the appropriately named field
	// in dest. Particles are transfered from the indices 'from' to the indices
	// 'to'. These indices are passed as arrays to amortize the cost of error
	// handling and type conversion.
	Transfer(dest Particles, from, to []int) error
	// CreateDestination creates output fields in p with the specified size
	// that have the correct names and types.
	CreateDestination(p Particles, n int)
	// Gather reorders the range [begin, begin+len(perm)) of the Field in
	// place, so that the slot begin+i receives the value previously stored at
	// the index perm[i]. The perm indices are absolute, not relative to begin,
	// and may land anywhere in the array. Gather buffers the gathered values
	// internally, so perm does not need to be a permutation of the range,
	// although it always is when called through the binsort package.
	Gather(perm []int, begin int) error
}

// Type assertions
var (
	_ Field = &Uint32{ }
	_ Field = &Uint64{ }
	_ Field = &Int{ }
	_ Field = &Float32{ }
	_ Field = &Float64{ }
	_ Field = &Vec32{ }
	_ Field = &Vec64{ }
	_ Field = &Mat64{ }
)

// checkGatherRange returns an error if the range covered by a Gather call on
// a field with n particles is out of bounds.
func checkGatherRange(name string, n int, perm []int, begin int) error {
	if begin < 0 || begin+len(perm) > n {
		return fmt.Errorf("The gather range [%d, %d) is out of bounds for the field '%s', which has %d particles.", begin, begin+len(perm), name, n)
	}
	for _, j := range perm {
		if j < 0 || j >= n {
			return fmt.Errorf("The gather index %d is out of bounds for the field '%s', which has %d particles.", j, name, n)
		}
	}
	return nil
}

// Uint32 implements the Field interface for []uint32 data. See the Field
// interface for documentation of this struct's methods.
type Uint32 struct {
	name string
	data []uint32
}

// NewUint32 creates a field with a given name associated with a given array.
func NewUint32(name string, x []uint32) *Uint32 {
	return &Uint32{ name, x }
}

func (x *Uint32) Len() int { return len(x.data) }
func (x *Uint32) Data() interface{} { return x.data }

func (x *Uint32) CreateDestination(p Particles, n int) {
	p[x.name] = NewUint32(x.name, make([]uint32, n))
}

func (x *Uint32) Transfer(dest Particles, from, to []int) error {
	destField, ok := dest[x.name]
	if !ok {
		return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.name)
	}

	destData, ok := destField.Data().([]uint32)
	if !ok {
		return fmt.Errorf("Field '%s' in destination Particles object does not have []uint32 type, as expected.", x.name)
	}

	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}

	return nil
}

func (x *Uint32) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([]uint32, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Uint64 implements the Field interface for []uint64 data. See the Field
// interface for documentation of this struct's methods.
type Uint64 struct {
	name string
	data []uint64
}

// NewUint64 creates a field with a given name associated with a given array.
func NewUint64(name string, x []uint64) *Uint64 {
	return &Uint64{ name, x }
}

func (x *Uint64) Len() int { return len(x.data) }
func (x *Uint64) Data() interface{} { return x.data }

func (x *Uint64) CreateDestination(p Particles, n int) {
	p[x.name] = NewUint64(x.name, make([]uint64, n))
}

func (x *Uint64) Transfer(dest Particles, from, to []int) error {
	destField, ok := dest[x.name]
	if !ok {
		return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.name)
	}

	destData, ok := destField.Data().([]uint64)
	if !ok {
		return fmt.Errorf("Field '%s' in destination Particles object does not have []uint64 type, as expected.", x.name)
	}

	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}

	return nil
}

func (x *Uint64) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([]uint64, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Int implements the Field interface for []int data. See the Field interface
// for documentation of this struct's methods.
type Int struct {
	name string
	data []int
}

// NewInt creates a field with a given name associated with a given array.
func NewInt(name string, x []int) *Int {
	return &Int{ name, x }
}

func (x *Int) Len() int { return len(x.data) }
func (x *Int) Data() interface{} { return x.data }

func (x *Int) CreateDestination(p Particles, n int) {
	p[x.name] = NewInt(x.name, make([]int, n))
}

func (x *Int) Transfer(dest Particles, from, to []int) error {
	destField, ok := dest[x.name]
	if !ok {
		return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.name)
	}

	destData, ok := destField.Data().([]int)
	if !ok {
		return fmt.Errorf("Field '%s' in destination Particles object does not have []int type, as expected.", x.name)
	}

	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}

	return nil
}

func (x *Int) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([]int, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Float32 implements the Field interface for []float32 data. See the Field
// interface for documentation of this struct's methods.
type Float32 struct {
	name string
	data []float32
}

// NewFloat32 creates a field with a given name associated with a given array.
func NewFloat32(name string, x []float32) *Float32 {
	return &Float32{ name, x }
}

func (x *Float32) Len() int { return len(x.data) }
func (x *Float32) Data() interface{} { return x.data }

func (x *Float32) CreateDestination(p Particles, n int) {
	p[x.name] = NewFloat32(x.name, make([]float32, n))
}

func (x *Float32) Transfer(dest Particles, from, to []int) error {
	destField, ok := dest[x.name]
	if !ok {
		return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.name)
	}

	destData, ok := destField.Data().([]float32)
	if !ok {
		return fmt.Errorf("Field '%s' in destination Particles object does not have []float32 type, as expected.", x.name)
	}

	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}

	return nil
}

func (x *Float32) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([]float32, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Float64 implements the Field interface for []float64 data. See the Field
// interface for documentation of this struct's methods.
type Float64 struct {
	name string
	data []float64
}

// NewFloat64 creates a field with a given name associated with a given array.
func NewFloat64(name string, x []float64) *Float64 {
	return &Float64{ name, x }
}

func (x *Float64) Len() int { return len(x.data) }
func (x *Float64) Data() interface{} { return x.data }

func (x *Float64) CreateDestination(p Particles, n int) {
	p[x.name] = NewFloat64(x.name, make([]float64, n))
}

func (x *Float64) Transfer(dest Particles, from, to []int) error {
	destField, ok := dest[x.name]
	if !ok {
		return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.name)
	}

	destData, ok := destField.Data().([]float64)
	if !ok {
		return fmt.Errorf("Field '%s' in destination Particles object does not have []float64 type, as expected.", x.name)
	}

	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}

	return nil
}

func (x *Float64) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([]float64, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Vec32 implements the Field interface for [][3]float32 data. See the Field
// interface for documentation of this struct's methods.
type Vec32 struct {
	name string
	dimNames [3]string
	data [][3]float32
}

// NewVec32 creates a field with a given name associated with a given array.
func NewVec32(name string, x [][3]float32) *Vec32 {
	dimNames := [3]string{ }
	for dim := range dimNames {
		dimNames[dim] = fmt.Sprintf("%s[%d]", name, dim)
	}
	return &Vec32{ name, dimNames, x }
}

func (x *Vec32) Len() int { return len(x.data) }
func (x *Vec32) Data() interface{} { return x.data }

func (x *Vec32) CreateDestination(p Particles, n int) {
	for dim := range x.dimNames {
		p[x.dimNames[dim]] = NewFloat32(x.dimNames[dim], make([]float32, n))
	}
}

func (x *Vec32) Transfer(dest Particles, from, to []int) error {
	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for dim := range x.dimNames {
		destField, ok := dest[x.dimNames[dim]]
		if !ok {
			return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.dimNames[dim])
		}

		destData, ok := destField.Data().([]float32)
		if !ok {
			return fmt.Errorf("Field '%s' in destination Particles object does not have []float32 type, as expected.", x.dimNames[dim])
		}

		for i := range from {
			destData[to[i]] = x.data[from[i]][dim]
		}
	}

	return nil
}

func (x *Vec32) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([][3]float32, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Vec64 implements the Field interface for [][3]float64 data. See the Field
// interface for documentation of this struct's methods.
type Vec64 struct {
	name string
	dimNames [3]string
	data [][3]float64
}

// NewVec64 creates a field with a given name associated with a given array.
func NewVec64(name string, x [][3]float64) *Vec64 {
	dimNames := [3]string{ }
	for dim := range dimNames {
		dimNames[dim] = fmt.Sprintf("%s[%d]", name, dim)
	}
	return &Vec64{ name, dimNames, x }
}

func (x *Vec64) Len() int { return len(x.data) }
func (x *Vec64) Data() interface{} { return x.data }

func (x *Vec64) CreateDestination(p Particles, n int) {
	for dim := range x.dimNames {
		p[x.dimNames[dim]] = NewFloat64(x.dimNames[dim], make([]float64, n))
	}
}

func (x *Vec64) Transfer(dest Particles, from, to []int) error {
	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for dim := range x.dimNames {
		destField, ok := dest[x.dimNames[dim]]
		if !ok {
			return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.dimNames[dim])
		}

		destData, ok := destField.Data().([]float64)
		if !ok {
			return fmt.Errorf("Field '%s' in destination Particles object does not have []float64 type, as expected.", x.dimNames[dim])
		}

		for i := range from {
			destData[to[i]] = x.data[from[i]][dim]
		}
	}

	return nil
}

func (x *Vec64) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([][3]float64, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}

// Mat64 implements the Field interface for [][3][2]float64 data, i.e. one
// small fixed-shape matrix per particle. See the Field interface for
// documentation of this struct's methods.
type Mat64 struct {
	name string
	dimNames [3][2]string
	data [][3][2]float64
}

// NewMat64 creates a field with a given name associated with a given array.
func NewMat64(name string, x [][3][2]float64) *Mat64 {
	dimNames := [3][2]string{ }
	for i := range dimNames {
		for j := range dimNames[i] {
			dimNames[i][j] = fmt.Sprintf("%s[%d][%d]", name, i, j)
		}
	}
	return &Mat64{ name, dimNames, x }
}

func (x *Mat64) Len() int { return len(x.data) }
func (x *Mat64) Data() interface{} { return x.data }

func (x *Mat64) CreateDestination(p Particles, n int) {
	for i := range x.dimNames {
		for j := range x.dimNames[i] {
			p[x.dimNames[i][j]] = NewFloat64(x.dimNames[i][j], make([]float64, n))
		}
	}
}

func (x *Mat64) Transfer(dest Particles, from, to []int) error {
	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i := range x.dimNames {
		for j := range x.dimNames[i] {
			destField, ok := dest[x.dimNames[i][j]]
			if !ok {
				return fmt.Errorf("Destination Particles object does not contain the field '%s'.", x.dimNames[i][j])
			}

			destData, ok := destField.Data().([]float64)
			if !ok {
				return fmt.Errorf("Field '%s' in destination Particles object does not have []float64 type, as expected.", x.dimNames[i][j])
			}

			for k := range from {
				destData[to[k]] = x.data[from[k]][i][j]
			}
		}
	}

	return nil
}

func (x *Mat64) Gather(perm []int, begin int) error {
	err := checkGatherRange(x.name, len(x.data), perm, begin)
	if err != nil { return err }

	buf := make([][3][2]float64, len(perm))
	for i, j := range perm {
		buf[i] = x.data[j]
	}
	copy(x.data[begin:], buf)

	return nil
}
