// Package cycles holds graphs whose cached values reach back to themselves while being built.
package cycles

//go:generate go run github.com/a-peyrard/godigen/cmd/godigen generate

// @graph scope=app
type CycleGraph interface {
	Eager() *Eager
	Impatient() *Impatient
	Patient() *Patient
}
