package scan

import (
	"math/rand"
	"testing"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

func TestAggregate_GroupsByParent(t *testing.T) {
	hits := []fsentry.FileHit{
		{Path: "/v/movies/a.mkv", Size: 4 << 30},
		{Path: "/v/movies/b.mkv", Size: 2 << 30},
		{Path: "/v/backups/dump.dmg", Size: 8 << 30},
	}
	spots := Aggregate(hits)
	if len(spots) != 2 {
		t.Fatalf("got %d hotspots, want 2", len(spots))
	}
	if spots[0].Dir != "/v/backups" || spots[0].TotalSize != 8<<30 || spots[0].FileCount != 1 {
		t.Errorf("spots[0] = %+v", spots[0])
	}
	if spots[1].Dir != "/v/movies" || spots[1].TotalSize != 6<<30 || spots[1].FileCount != 2 {
		t.Errorf("spots[1] = %+v", spots[1])
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	hits := []fsentry.FileHit{
		{Path: "/a/x/1.bin", Size: 100},
		{Path: "/a/x/2.bin", Size: 300},
		{Path: "/a/y/3.bin", Size: 250},
		{Path: "/a/y/4.bin", Size: 150},
		{Path: "/a/z/5.bin", Size: 400},
	}
	want := Aggregate(hits)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]fsentry.FileHit(nil), hits...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := Aggregate(shuffled)
		if len(got) != len(want) {
			t.Fatalf("trial %d: %d groups, want %d", trial, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("trial %d: got[%d] = %+v, want %+v", trial, i, got[i], want[i])
			}
		}
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	hits := []fsentry.FileHit{
		{Path: "/a/b/1.bin", Size: 10},
		{Path: "/a/b/2.bin", Size: 20},
	}
	orig := append([]fsentry.FileHit(nil), hits...)
	_ = Aggregate(hits)
	for i := range hits {
		if hits[i] != orig[i] {
			t.Fatalf("input mutated at %d: %+v", i, hits[i])
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); got != nil {
		t.Errorf("Aggregate(nil) = %+v, want nil", got)
	}
}
