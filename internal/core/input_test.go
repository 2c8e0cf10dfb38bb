package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionRotate)
	f.AddDrag(Point{1, 2}, Point{3, 2})

	if !f.Has(ActionRotate) || f.Has(ActionHold) {
		t.Errorf("Has() mismatch: %v", f.Actions)
	}
	if len(f.Drags) != 1 || f.Drags[0].To != (Point{3, 2}) {
		t.Errorf("Drags = %+v", f.Drags)
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
}

func TestZeroInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionLeft) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionLeft)
	if !f.Has(ActionLeft) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:     "None",
		ActionHardDrop: "HardDrop",
		ActionToggleAI: "ToggleAI",
		Action(99):     "Unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, expected %q", int(a), got, want)
		}
	}
}
