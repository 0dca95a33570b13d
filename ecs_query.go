package forest

import (
	"reflect"
)

// Queries iterate every archetype holding the requested components.
// Components listed as optionals may be missing, in which case the callback
// receives nil for them. Returning false from the callback stops iteration.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

// column resolves one requested component in an archetype. skip reports that the
// archetype cannot satisfy the query.
func column[T any](arch *archetype, id componentId, optional set[componentId]) (comps []T, skip bool) {
	if data, ok := arch.componentData[id]; ok {
		return data.([]T), false
	}
	if _, ok := optional[id]; ok {
		return nil, false
	}
	return nil, true
}

func at[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, skip := column[A](arch, id1, opt)
		if skip {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, skip1 := column[A](arch, id1, opt)
		comps2, skip2 := column[B](arch, id2, opt)
		if skip1 || skip2 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, r), at(comps2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs), identifyComponent[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, skip1 := column[A](arch, id1, opt)
		comps2, skip2 := column[B](arch, id2, opt)
		comps3, skip3 := column[C](arch, id3, opt)
		if skip1 || skip2 || skip3 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, r), at(comps2, r), at(comps3, r)) {
				return
			}
		}
	}
}

// Count returns the number of entities matching the query.
func (q Query1[A]) Count() int {
	n := 0
	q.Map(func(EntityId, *A) bool {
		n++
		return true
	})
	return n
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	return res
}

func identifyComponent[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[T]())
}
