package entity

import "testing"

func TestPlannedLedger_IncrementAndSet(t *testing.T) {
	l := NewPlannedLedger()
	for i := 0; i < 3; i++ {
		l.Increment(7)
	}
	if got := l.Get(7); got != 30 {
		t.Fatalf("Get(7) = %d, want 30", got)
	}

	l.Set(7, 0)
	if got := l.Get(7); got != 0 {
		t.Fatalf("Get(7) after Set(0) = %d, want 0", got)
	}
	if got := l.Positive(); len(got) != 0 {
		t.Fatalf("Positive() = %v, want empty", got)
	}
}

func TestPlannedLedger_SetClampsNegative(t *testing.T) {
	l := NewPlannedLedger()
	if got := l.Set(1, -20); got != 0 {
		t.Fatalf("Set(-20) = %d, want 0", got)
	}
	if got := l.Get(1); got != 0 {
		t.Fatalf("Get(1) = %d, want 0", got)
	}
}

func TestPlannedLedger_UnsetAndNil(t *testing.T) {
	var l *PlannedLedger
	if got := l.Get(3); got != 0 {
		t.Fatalf("nil ledger Get = %d, want 0", got)
	}
	fresh := NewPlannedLedger()
	if got := fresh.Get(3); got != 0 {
		t.Fatalf("unset Get = %d, want 0", got)
	}
}

func TestPlannedLedger_CloneIsIndependent(t *testing.T) {
	l := NewPlannedLedger()
	l.Set(1, 40)
	c := l.Clone()
	c.Increment(1)
	if l.Get(1) != 40 || c.Get(1) != 50 {
		t.Fatalf("clone shares state: orig=%d clone=%d", l.Get(1), c.Get(1))
	}
}

func TestParseCategoryTag(t *testing.T) {
	cases := map[string]CategoryTag{
		"Женский":  CategoryFemale,
		"ж":        CategoryFemale,
		"МУЖСКОЙ":  CategoryMale,
		"унисекс":  CategoryUnisex,
		"Unisex":   CategoryUnisex,
		"":         CategoryUnknown,
		"детский":  CategoryUnknown,
	}
	for in, want := range cases {
		if got := ParseCategoryTag(in); got != want {
			t.Fatalf("ParseCategoryTag(%q) = %q, want %q", in, got, want)
		}
	}
}
