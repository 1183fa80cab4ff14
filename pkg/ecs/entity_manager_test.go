package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testParticleComponent struct {
	VX, VY  float64
	Opacity float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// ID 从 1 开始且唯一
	if id1 != 1 || id2 != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", id1, id2)
	}
	if em.EntityCount() != 2 {
		t.Errorf("expected 2 entities, got %d", em.EntityCount())
	}
}

func TestGenericAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("component data mismatch, got (%f, %f)", pos.X, pos.Y)
	}

	// 泛型与反射接口共享同一份存储
	if _, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{})); !found {
		t.Error("reflection lookup should see the generic component")
	}

	// 组件是指针，修改对后续查询可见
	pos.X = 5
	again, _ := GetComponent[*testPositionComponent](em, id)
	if again.X != 5 {
		t.Errorf("expected mutation to persist, got %f", again.X)
	}
}

func TestGetComponentMissing(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if _, ok := GetComponent[*testParticleComponent](em, id); ok {
		t.Error("missing component should not be found")
	}
	if _, ok := GetComponent[*testParticleComponent](em, EntityID(999)); ok {
		t.Error("unknown entity should not have components")
	}
}

func TestAddComponentToUnknownEntityIsIgnored(t *testing.T) {
	em := NewEntityManager()
	AddComponent(em, EntityID(7), &testPositionComponent{})
	if em.EntityCount() != 0 {
		t.Errorf("expected no entities, got %d", em.EntityCount())
	}
}

func TestGetEntitiesWithIsSorted(t *testing.T) {
	em := NewEntityManager()

	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{})
		if i%2 == 0 {
			AddComponent(em, id, &testParticleComponent{})
		}
	}

	both := GetEntitiesWith2[*testPositionComponent, *testParticleComponent](em)
	if len(both) != 25 {
		t.Fatalf("expected 25 entities with both components, got %d", len(both))
	}
	for i := 1; i < len(both); i++ {
		if both[i-1] >= both[i] {
			t.Fatalf("result not sorted at %d: %v", i, both)
		}
	}

	all := em.GetEntitiesWith(reflect.TypeOf(&testPositionComponent{}))
	if len(all) != 50 {
		t.Errorf("expected 50 entities with position, got %d", len(all))
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)
	if _, ok := GetComponent[*testPositionComponent](em, id); !ok {
		t.Error("entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if _, ok := GetComponent[*testPositionComponent](em, id); ok {
		t.Error("entity should be removed after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("expected no entities after cleanup, got %d", em.EntityCount())
	}
}
