package notify

import "testing"

func TestLatestKeepsOnlyMostRecent(t *testing.T) {
	l := &Latest{}
	l.Success("saved")
	l.Error("broke")

	msg, fail, ok := l.Take()
	if !ok || msg != "broke" || !fail {
		t.Fatalf("Take() = %q, %v, %v", msg, fail, ok)
	}
}

func TestLatestTakeClears(t *testing.T) {
	l := &Latest{}
	l.Success("saved")

	if _, _, ok := l.Take(); !ok {
		t.Fatal("expected a pending message")
	}
	if _, _, ok := l.Take(); ok {
		t.Fatal("Take must clear the slot")
	}
}

func TestLatestEmpty(t *testing.T) {
	l := &Latest{}
	if _, _, ok := l.Take(); ok {
		t.Fatal("empty Latest must report nothing")
	}
}
