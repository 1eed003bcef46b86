package dirtree

import "testing"

// buildDir creates a finalized directory with one size-1 file per time.
func buildDir(name string, times ...int64) *Dir {
	d := New(name)
	for _, tm := range times {
		d.AppendFile(1, tm)
	}
	d.Finalize()
	return d
}

func collectTimes(d *Dir) []int64 {
	var times []int64
	it := NewIter(d)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		times = append(times, e.Time)
	}
	return times
}

func TestIterHeapMerge(t *testing.T) {
	parent := buildDir("parent", 3)
	parent.AppendChild(buildDir("a", 1, 5, 9))
	parent.AppendChild(buildDir("b", 2, 6, 10))

	want := []int64{1, 2, 3, 5, 6, 9, 10}
	got := collectTimes(parent)
	if len(got) != len(want) {
		t.Fatalf("yielded %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("times = %v, want %v", got, want)
		}
	}
}

func TestIterDirectFileWinsTie(t *testing.T) {
	parent := New("parent")
	parent.AppendFile(100, 5)
	parent.Finalize()
	parent.AppendChild(buildDir("sub", 5))

	it := NewIter(parent)
	first, ok := it.Next()
	if !ok {
		t.Fatal("iterator empty")
	}
	if first.Size != 100 {
		t.Errorf("first entry size = %d, want the direct file (100)", first.Size)
	}
	second, ok := it.Next()
	if !ok || second.Size != 1 {
		t.Errorf("second entry = %+v, %v; want the subdir file", second, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator yielded more than two entries")
	}
}

func TestIterEmptySubtree(t *testing.T) {
	root := New("root")
	root.AppendChild(New("empty"))

	if _, ok := NewIter(root).Next(); ok {
		t.Fatal("iterator over empty subtree yielded an entry")
	}
}

func TestIterNilTree(t *testing.T) {
	if _, ok := NewIter(nil).Next(); ok {
		t.Fatal("iterator over nil tree yielded an entry")
	}
}

func TestIterVisitsEveryClusterOnce(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Dir
		want  int
	}{
		{
			"deep chain",
			func() *Dir {
				root := buildDir("root", 50)
				cur := root
				for i := int64(0); i < 10; i++ {
					next := buildDir("sub", i*2, i*2+1)
					cur.AppendChild(next)
					cur = next
				}
				return root
			},
			21,
		},
		{
			"wide",
			func() *Dir {
				root := New("root")
				for i := int64(0); i < 16; i++ {
					root.AppendChild(buildDir("sub", i, 100+i))
				}
				return root
			},
			32,
		},
		{
			"files only",
			func() *Dir { return buildDir("root", 9, 7, 5, 3, 1) },
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times := collectTimes(tt.build())
			if len(times) != tt.want {
				t.Fatalf("yielded %d entries, want %d", len(times), tt.want)
			}
			for i := 1; i < len(times); i++ {
				if times[i-1] > times[i] {
					t.Fatalf("out of order at %d: %v", i, times)
				}
			}
		})
	}
}
