package engine

import (
	"fmt"
	"sort"
)

// ComponentFactory constructs a named component from scene-file props.
type ComponentFactory func(ctx *Context, props map[string]any) (Component, error)

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent makes a component constructible by name. Packages call it
// from init; registering a name twice panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent builds a registered component in ctx.
func CreateComponent(ctx *Context, name string, props map[string]any) (Component, error) {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}
	c, err := factory(ctx, props)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return c, nil
}

// RegisteredComponents returns every registered name, sorted.
func RegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
