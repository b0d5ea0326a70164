package modulemanager

import (
	"fmt"
	"strings"
)

// initializationOrder sorts modules so that every module comes after the
// modules it depends on. Modules without a dependency between them keep
// their registration order.
func initializationOrder(modules []Module) ([]Module, error) {
	byID := make(map[string]Module, len(modules))
	for _, m := range modules {
		byID[m.ID()] = m
	}

	for _, m := range modules {
		for _, dep := range dependenciesOf(m) {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("module %s depends on non-existent module %s", m.ID(), dep)
			}
		}
	}

	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(modules))
	order := make([]Module, 0, len(modules))

	var visit func(m Module, path []string) error
	visit = func(m Module, path []string) error {
		switch state[m.ID()] {
		case done:
			return nil
		case inStack:
			return fmt.Errorf("circular dependency detected: %s -> %s", strings.Join(path, " -> "), m.ID())
		}
		state[m.ID()] = inStack
		path = append(path, m.ID())
		for _, dep := range dependenciesOf(m) {
			if err := visit(byID[dep], path); err != nil {
				return err
			}
		}
		state[m.ID()] = done
		order = append(order, m)
		return nil
	}

	for _, m := range modules {
		if err := visit(m, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func dependenciesOf(m Module) []string {
	if dp, ok := m.(DependencyProvider); ok {
		return dp.Dependencies()
	}
	return nil
}
