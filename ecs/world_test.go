package ecs

import (
	"sync"
	"testing"

	"github.com/milk9111/webswing/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if w.Len() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.Len())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 7); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(old)

	recycled := w.CreateEntity()
	if recycled == old {
		t.Fatalf("recycled entity must not equal destroyed handle")
	}
	if recycled.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), recycled.id())
	}
	if Has(w, recycled, h) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, old, h, 1); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, strs, "a"); err != nil {
					return err
				}
				return Add(w, e2, strs, "b")
			},
			check: func(t *testing.T) {
				got := w.Query(ints.Kind(), strs.Kind())
				if len(got) != 1 || got[0] != e1 {
					t.Fatalf("expected only e1 to match both kinds, got %v", got)
				}
			},
		},
		{
			name:  "remove_and_requery",
			setup: func() error { Remove(w, e1, ints); return Add(w, e3, ints, 3) },
			check: func(t *testing.T) {
				got := w.Query(ints.Kind(), strs.Kind())
				if len(got) != 0 {
					t.Fatalf("expected empty query, got %v", got)
				}
				first, ok := w.First(ints.Kind())
				if !ok || first != e3 {
					t.Fatalf("expected e3 first, got %v ok=%v", first, ok)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestForEachKeepsInsertionOrder(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	var want []Entity
	for i := 0; i < 5; i++ {
		e := w.CreateEntity()
		if err := Add(w, e, h, i); err != nil {
			t.Fatalf("add: %v", err)
		}
		want = append(want, e)
	}

	var got []Entity
	ForEach(w, h, func(e Entity, v int) {
		got = append(got, e)
	})
	if len(got) != len(want) {
		t.Fatalf("expected %d entities, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: want %v got %v", i, want[i], got[i])
		}
	}
}

func TestEventQueueConcurrentPush(t *testing.T) {
	w := NewWorld()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w.Events().Push(Event{Type: "push", Data: n})
		}(i)
	}
	wg.Wait()

	if got := len(w.Events().Drain()); got != 8 {
		t.Fatalf("expected 8 events, got %d", got)
	}
	if w.Events().Drain() != nil {
		t.Fatalf("expected empty queue after drain")
	}
}
