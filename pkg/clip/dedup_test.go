package clip

import "testing"

func TestDeduplicator(t *testing.T) {
	var d Deduplicator

	h1, changed := d.Check([]byte("first"))
	if !changed {
		t.Fatal("first content not reported as change")
	}

	if _, changed := d.Check([]byte("first")); changed {
		t.Fatal("repeated content reported as change")
	}

	h2, changed := d.Check([]byte("second"))
	if !changed {
		t.Fatal("new content not reported as change")
	}
	if h1 == h2 {
		t.Fatal("distinct contents hashed identically")
	}

	// and back again: only consecutive repeats are suppressed
	if _, changed := d.Check([]byte("first")); !changed {
		t.Fatal("alternating content not reported as change")
	}
}

func TestDeduplicatorMark(t *testing.T) {
	var d Deduplicator
	d.Mark([]byte("ours"))

	if _, changed := d.Check([]byte("ours")); changed {
		t.Fatal("marked content reported as change")
	}
	if _, changed := d.Check([]byte("theirs")); !changed {
		t.Fatal("foreign content not reported as change")
	}
}
