package workerinject

import (
	"fmt"
)

type provision struct {
	typeName string
	factory  Factory
}

// Module collects factory registrations. Build validates them and returns
// the map NewRegistry expects.
type Module struct {
	provisions []provision
}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Provide(typeName string, factory Factory) *Module {
	m.provisions = append(m.provisions, provision{typeName: typeName, factory: factory})
	return m
}

func (m *Module) ProvideFunc(typeName string, factory FactoryFunc) *Module {
	if factory == nil {
		return m.Provide(typeName, nil)
	}
	return m.Provide(typeName, factory)
}

// Include appends every registration of other, duplicates are reported by Build.
func (m *Module) Include(other *Module) *Module {
	m.provisions = append(m.provisions, other.provisions...)
	return m
}

func (m *Module) Build() (map[string]Factory, error) {
	factories := make(map[string]Factory, len(m.provisions))
	for _, p := range m.provisions {
		if p.typeName == "" {
			return nil, ErrTypeIsRequired
		}
		if isNilFactory(p.factory) {
			return nil, fmt.Errorf("%w: type %q", ErrNilFactory, p.typeName)
		}
		if _, ok := factories[p.typeName]; ok {
			return nil, fmt.Errorf("%w: type %q", ErrDuplicateType, p.typeName)
		}
		factories[p.typeName] = p.factory
	}
	return factories, nil
}

func (m *Module) MustBuild() map[string]Factory {
	factories, err := m.Build()
	if err != nil {
		panic(err)
	}
	return factories
}
