package forest

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcs_MakeEcs(t *testing.T) {
	ecs := MakeEcs()

	assert.Empty(t, ecs.archetypes)
	assert.Empty(t, ecs.entityIndex)
	assert.Equal(t, EntityId(0), ecs.entityIdCounter)
	assert.Equal(t, componentId(0), ecs.componentIdCounter)
}

func TestEcs_AddEntity(t *testing.T) {
	type TestComponent struct{ x string }

	ecs := MakeEcs()
	bare := ecs.addEntity()
	withComp := ecs.addEntity(TestComponent{x: "test"})

	require.True(t, ecs.hasEntity(bare))
	require.True(t, ecs.hasEntity(withComp))
	assert.NotEqual(t, ecs.entityIndex[bare], ecs.entityIndex[withComp],
		"entities with different components share an archetype")
	assert.Equal(t, 2, ecs.entityCount())
}

func TestEcs_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	ecs := MakeEcs()
	id := ecs.addEntity(TestComponent0{a: 1337})
	ecs.addComponents(id, TestComponent1{x: "test"}, TestComponent2{y: "hello"})
	ecs.addComponents(id, &TestComponent3{z: "test-2"})

	arch := ecs.archetypes[ecs.entityIndex[id]]
	require.Len(t, arch.componentData, 4)

	r := arch.entities[id]
	c0 := arch.componentData[ecs.getComponentId(reflect.TypeFor[TestComponent0]())].([]TestComponent0)
	c3 := arch.componentData[ecs.getComponentId(reflect.TypeFor[TestComponent3]())].([]TestComponent3)
	assert.Equal(t, 1337, c0[r].a, "existing component survives the archetype move")
	assert.Equal(t, "test-2", c3[r].z)
}

func TestEcs_AddComponents_OverwritesExisting(t *testing.T) {
	type Health struct{ HP int }

	ecs := MakeEcs()
	id := ecs.addEntity(Health{HP: 10})
	before := ecs.entityIndex[id]

	ecs.addComponents(id, Health{HP: 3})

	assert.Equal(t, before, ecs.entityIndex[id])
	arch := ecs.archetypes[before]
	assert.Equal(t, 3, arch.componentData[ecs.getComponentId(reflect.TypeFor[Health]())].([]Health)[arch.entities[id]].HP)
}

func TestEcs_RemoveComponents(t *testing.T) {
	type Position struct{ X float32 }
	type Velocity struct{ V float32 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{X: 4}, Velocity{V: 1})
	ecs.removeComponents(id, Velocity{})

	arch := ecs.archetypes[ecs.entityIndex[id]]
	require.Len(t, arch.key, 1)
	pos := arch.componentData[ecs.getComponentId(reflect.TypeFor[Position]())].([]Position)
	assert.Equal(t, float32(4), pos[arch.entities[id]].X)

	// Removing something the entity lacks is a no-op.
	ecs.removeComponents(id, Velocity{})
	assert.Len(t, ecs.archetypes[ecs.entityIndex[id]].key, 1)
}

func TestEcs_AddInvalidComponentShouldPanic(t *testing.T) {
	ecs := MakeEcs()
	assert.Panics(t, func() { ecs.addEntity(123) })
	assert.Panics(t, func() { ecs.addEntity(nil) })
}

func TestEcs_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	ecs := MakeEcs()
	id1 := ecs.getComponentId(reflect.TypeOf(Position{}))
	id2 := ecs.getComponentId(reflect.TypeOf(Position{}))

	assert.Equal(t, id1, id2)
	assert.Equal(t, reflect.TypeOf(Position{}), ecs.getComponentType(id1))
	assert.Panics(t, func() { ecs.getComponentType(99) })
}

func TestEcs_ArchetypeKeyExtension(t *testing.T) {
	assert.Equal(t, archetypeKey{1, 2, 3}, dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3}))
	assert.Equal(t, archetypeKey{1, 2, 3, 4}, combineArchetypeKeys([]componentId{1, 2, 3}, []componentId{4, 3, 2, 1}))
	assert.Equal(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(dedupAndSortArchetypeKey([]componentId{2, 1, 2})))
}

func TestEcs_RemoveEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2})
	ecs.removeEntity(id)
	assert.False(t, ecs.hasEntity(id))

	assert.NotPanics(t, func() { ecs.removeEntity(id) }, "double removal")
}

func TestEcs_RecycledRowIsReused(t *testing.T) {
	type Position struct{ X float64 }

	ecs := MakeEcs()
	first := ecs.addEntity(Position{1})
	arch := ecs.archetypes[ecs.entityIndex[first]]
	freed := arch.entities[first]

	ecs.removeEntity(first)
	second := ecs.addEntity(Position{2})

	assert.Equal(t, freed, arch.entities[second])
	assert.Equal(t, 1, reflectSliceLen(arch.componentData[arch.key[0]]))
}
