package repository

import "testing"

func TestBatchSpans(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		size  int
		spans [][2]int
	}{
		{"empty", 0, 100, nil},
		{"single partial", 50, 100, [][2]int{{0, 50}}},
		{"exact fit", 100, 100, [][2]int{{0, 100}}},
		{"across boundaries", 250, 100, [][2]int{{0, 100}, {100, 200}, {200, 250}}},
		{"size one", 3, 1, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{"zero size defaults", 150, 0, [][2]int{{0, 100}, {100, 150}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := batchSpans(tc.n, tc.size)
			if len(got) != len(tc.spans) {
				t.Fatalf("got %d spans, want %d: %v", len(got), len(tc.spans), got)
			}
			covered := 0
			for i, span := range got {
				if span != tc.spans[i] {
					t.Errorf("span %d = %v, want %v", i, span, tc.spans[i])
				}
				if span[0] != covered {
					t.Errorf("span %d starts at %d, leaving a gap after %d", i, span[0], covered)
				}
				covered = span[1]
			}
			if covered != tc.n {
				t.Errorf("spans cover %d rows of %d", covered, tc.n)
			}
		})
	}
}
