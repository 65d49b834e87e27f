package game

import "testing"

func TestArea_MembersFillHoles(t *testing.T) {
	a := newArea(1)
	a.AddMember(20)
	a.AddMember(21)
	a.AddMember(22)
	a.RemoveMember(21)
	if a.Members() != 2 {
		t.Fatalf("members = %d", a.Members())
	}
	a.AddMember(30)
	got := a.MemberSlots()
	want := []int{20, 30, 22}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slots = %v, want %v", got, want)
		}
	}
}

func TestArea_CapacityDropsExtraMembers(t *testing.T) {
	a := newArea(2)
	for i := 0; i < areaCapacity; i++ {
		if !a.AddMember(IndexBots + i) {
			t.Fatalf("member %d rejected", i)
		}
	}
	if a.AddMember(999) {
		t.Fatal("a full area should reject members")
	}
}

func TestArea_RemoveUnknownMember(t *testing.T) {
	a := newArea(0)
	if a.RemoveMember(42) {
		t.Fatal("removing a non-member should report false")
	}
	if a.Members() != 0 {
		t.Fatal("member count must not go negative")
	}
}

func TestArea_LightsResetToLoaded(t *testing.T) {
	a := newArea(0)
	a.AddLight(3, 4)
	a.AddLight(5, 6)
	a.snapshotLights()
	if !a.TryRemoveLight(3, 4) {
		t.Fatal("light at (3,4) should be removable")
	}
	if a.TryRemoveLight(3, 4) {
		t.Fatal("a light is removed only once")
	}
	a.resetLights()
	if len(a.Lights()) != 2 {
		t.Fatalf("lights after reset = %v", a.Lights())
	}
}

func TestAreaRegistry_ClearedOnce(t *testing.T) {
	r := NewAreaRegistry()
	r.Get(4).AddMember(IndexBots)
	if !r.MarkCleared(4) {
		t.Fatal("first clear should be new")
	}
	if r.MarkCleared(4) {
		t.Fatal("second clear must be ignored")
	}
	if got := r.Cleared(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("cleared = %v", got)
	}
	if !r.AllCleared() {
		t.Fatal("the only bot area is cleared")
	}
	r.ResetCleared()
	if r.IsCleared(4) || r.AllCleared() {
		t.Fatal("reset should forget cleared areas")
	}
}

func TestAreaRegistry_NoBotsNeverAllCleared(t *testing.T) {
	r := NewAreaRegistry()
	r.Get(1)
	if r.AllCleared() {
		t.Fatal("a level without bots is never won by clearing")
	}
}

func TestAreaRegistry_LastSpawnSkipsAreasWithoutSpawn(t *testing.T) {
	r := NewAreaRegistry()
	r.Get(1).SetSpawnPoint(10, 11)
	r.Get(2)
	r.MarkCleared(1)
	r.MarkCleared(2)
	a, ok := r.LastSpawn()
	if !ok || a.ID != 1 {
		t.Fatalf("last spawn = %v,%v, want area 1", a, ok)
	}
}

func TestArea_Names(t *testing.T) {
	r := NewAreaRegistry()
	if r.Get(0).Name() != "first contact" {
		t.Fatalf("area 0 name = %q", r.Get(0).Name())
	}
	if r.Get(19).Name() != "" {
		t.Fatal("goal area has no name")
	}
}
