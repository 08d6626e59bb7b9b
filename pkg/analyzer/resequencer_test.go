package analyzer

import (
	"testing"

	"github.com/user/vca/pkg/pipeline"
)

func seqResult(id uint64) pipeline.FrameResult {
	return pipeline.FrameResult{SequenceID: id, POC: int(id)}
}

func ids(results []pipeline.FrameResult) []uint64 {
	out := make([]uint64, len(results))
	for i, r := range results {
		out[i] = r.SequenceID
	}
	return out
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResequencer_RestoresOrder(t *testing.T) {
	tests := []struct {
		name  string
		input []uint64
		want  [][]uint64
	}{
		{
			name:  "in order",
			input: []uint64{0, 1, 2},
			want:  [][]uint64{{0}, {1}, {2}},
		},
		{
			name:  "reversed",
			input: []uint64{2, 1, 0},
			want:  [][]uint64{{}, {}, {0, 1, 2}},
		},
		{
			name:  "gap filled later",
			input: []uint64{1, 0, 3, 2},
			want:  [][]uint64{{}, {0, 1}, {}, {2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResequencer(0)
			for i, id := range tt.input {
				got := ids(r.Add(seqResult(id)))
				if !equalIDs(got, tt.want[i]) {
					t.Errorf("step %d: got %v, want %v", i, got, tt.want[i])
				}
			}
			if r.Pending() != 0 {
				t.Errorf("expected nothing pending, got %d", r.Pending())
			}
			if r.Next() != uint64(len(tt.input)) {
				t.Errorf("expected next %d, got %d", len(tt.input), r.Next())
			}
		})
	}
}

func TestResequencer_StaleResultPassesThrough(t *testing.T) {
	r := NewResequencer(5)
	got := ids(r.Add(seqResult(2)))
	if !equalIDs(got, []uint64{2}) {
		t.Errorf("expected stale result returned, got %v", got)
	}
	if r.Next() != 5 {
		t.Errorf("expected next 5, got %d", r.Next())
	}
}

func TestResequencer_Flush(t *testing.T) {
	r := NewResequencer(0)
	r.Add(seqResult(4))
	r.Add(seqResult(2))
	r.Add(seqResult(3))

	if r.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", r.Pending())
	}
	got := ids(r.Flush())
	if !equalIDs(got, []uint64{2, 3, 4}) {
		t.Errorf("expected sorted flush, got %v", got)
	}
	if r.Pending() != 0 || r.Next() != 5 {
		t.Errorf("unexpected state after flush: pending %d next %d", r.Pending(), r.Next())
	}
	if len(r.Flush()) != 0 {
		t.Error("expected empty second flush")
	}
}
