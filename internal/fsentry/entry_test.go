package fsentry

import (
	"testing"
)

func TestSortEntries_DescendingBySizeThenPath(t *testing.T) {
	entries := []Entry{
		{Path: "/a/zeta", Size: 100},
		{Path: "/a/alpha", Size: 100},
		{Path: "/a/big", Size: 5000},
		{Path: "/a/tiny", Size: 1},
	}
	SortEntries(entries)

	want := []string{"/a/big", "/a/alpha", "/a/zeta", "/a/tiny"}
	for i, p := range want {
		if entries[i].Path != p {
			t.Errorf("entries[%d].Path = %q, want %q", i, entries[i].Path, p)
		}
	}
}

func TestSortEntries_Deterministic(t *testing.T) {
	a := []Entry{
		{Path: "/x/b", Size: 10}, {Path: "/x/a", Size: 10}, {Path: "/x/c", Size: 10},
	}
	b := []Entry{
		{Path: "/x/c", Size: 10}, {Path: "/x/b", Size: 10}, {Path: "/x/a", Size: 10},
	}
	SortEntries(a)
	SortEntries(b)
	for i := range a {
		if a[i].Path != b[i].Path {
			t.Fatalf("order differs at %d: %q vs %q", i, a[i].Path, b[i].Path)
		}
	}
}

func TestSortHits(t *testing.T) {
	hits := []FileHit{
		{Path: "/v/b.bin", Size: 200},
		{Path: "/v/a.bin", Size: 200},
		{Path: "/v/c.bin", Size: 900},
	}
	SortHits(hits)
	if hits[0].Path != "/v/c.bin" || hits[1].Path != "/v/a.bin" || hits[2].Path != "/v/b.bin" {
		t.Errorf("unexpected order: %+v", hits)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &ScanResult{
		Root:       "/r",
		Entries:    []Entry{{Path: "/r/a", Size: 1}},
		LargeFiles: []FileHit{{Path: "/r/a/big", Size: 2 << 30}},
		Hotspots:   []Hotspot{{Dir: "/r/a", TotalSize: 2 << 30, FileCount: 1}},
		TotalSize:  42,
	}
	cp := orig.Clone()
	cp.Entries[0].Size = 999
	cp.LargeFiles[0].Path = "/mutated"
	cp.Hotspots[0].FileCount = 7

	if orig.Entries[0].Size != 1 {
		t.Error("clone shares Entries backing array")
	}
	if orig.LargeFiles[0].Path != "/r/a/big" {
		t.Error("clone shares LargeFiles backing array")
	}
	if orig.Hotspots[0].FileCount != 1 {
		t.Error("clone shares Hotspots backing array")
	}
}

func TestCloneNil(t *testing.T) {
	var r *ScanResult
	if r.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestCategoryForPath(t *testing.T) {
	cases := []struct {
		path string
		want Category
	}{
		{"/a/movie.MP4", CategoryMedia},
		{"/a/backup.tar", CategoryArchive},
		{"/a/photo.jpeg", CategoryImage},
		{"/a/lib.dylib", CategoryBinary},
		{"/a/readme.md", CategoryOther},
		{"/a/noext", CategoryOther},
	}
	for _, c := range cases {
		if got := CategoryForPath(c.path); got != c.want {
			t.Errorf("CategoryForPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestKindAndAccuracyStrings(t *testing.T) {
	if KindDirectory.String() != "dir" || KindFile.String() != "file" {
		t.Error("Kind.String mismatch")
	}
	if Estimated.String() != "estimated" || Definite.String() != "definite" {
		t.Error("Accuracy.String mismatch")
	}
}
