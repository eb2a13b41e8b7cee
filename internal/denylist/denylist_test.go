package denylist

import (
	"reflect"
	"testing"
)

func TestContains(t *testing.T) {
	d := New("1.1.1.1", "2.2.2.2")

	if !d.Contains("1.1.1.1") {
		t.Error("expected 1.1.1.1 to be denylisted")
	}
	if d.Contains("8.8.8.8") {
		t.Error("8.8.8.8 should not be denylisted")
	}
}

func TestNew_TrimsAndSkipsEmpty(t *testing.T) {
	d := New(" 1.1.1.1 ", "", "  ")

	if d.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", d.Len())
	}
	if !d.Contains("1.1.1.1") {
		t.Error("trimmed entry should match untrimmed lookup")
	}
}

func TestNew_Empty(t *testing.T) {
	d := New()
	if d.Len() != 0 {
		t.Errorf("expected empty denylist, got %d entries", d.Len())
	}
	if d.Contains("1.1.1.1") {
		t.Error("empty denylist contains nothing")
	}
}

func TestIPs_Sorted(t *testing.T) {
	d := New("9.9.9.9", "1.1.1.1", "2.2.2.2")
	got := d.IPs()
	want := []string{"1.1.1.1", "2.2.2.2", "9.9.9.9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
