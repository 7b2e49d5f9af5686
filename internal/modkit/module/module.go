// Package module holds the module contract and port lookup, apart from modkit
// so a module can export its own port types without an import cycle
package module

import (
	"fmt"
	"reflect"

	phttp "sylwalk/internal/platform/net/http"
)

// Module is a mountable API unit that may export ports
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// PortsOf finds a T in m.Ports(), either the value itself or one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring in main, a missing port panics
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s: no port of type %s", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}
