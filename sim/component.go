package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is a named, hookable part of a simulated circuit. Components
// that act on clock edges also implement Clocked or FallingEdgeHandler.
type Component interface {
	Named
	Hookable
}

// ComponentBase gives a component its name and hook support. Embed a pointer
// to it.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a ComponentBase. It panics if the name does not
// follow the naming rules.
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
