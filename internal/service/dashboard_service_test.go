package service

import "testing"

func TestFoldApproval(t *testing.T) {
	counts := map[string]int{
		"Yes":     5,
		"yes ":    2,
		"NO":      3,
		"Pending": 4,
		"maybe":   1,
		"":        2,
	}

	a := foldApproval(counts)
	if a.Yes != 7 {
		t.Errorf("Yes = %d", a.Yes)
	}
	if a.No != 3 {
		t.Errorf("No = %d", a.No)
	}
	if a.Pending != 7 {
		t.Errorf("Pending = %d", a.Pending)
	}
}
