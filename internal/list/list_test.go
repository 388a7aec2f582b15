// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package list_test

import (
	"testing"

	"code.hybscloud.com/schedcore/internal/list"
)

type widget struct {
	id   int
	node *list.Head[widget]
}

func newWidget(id int) *widget {
	w := &widget{id: id}
	w.node = list.New(w)
	return w
}

func collect(h *list.Head[widget]) []int {
	var ids []int
	list.Do(h, func(w *widget) { ids = append(ids, w.id) })
	return ids
}

func TestAddTailOrder(t *testing.T) {
	head := list.New[widget](nil)
	head.Init()

	for i := 1; i <= 3; i++ {
		list.AddTail(head, newWidget(i).node)
	}

	got := collect(head)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("collect: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collect: got %v, want %v", got, want)
		}
	}
}

func TestAddHeadOrder(t *testing.T) {
	head := list.New[widget](nil)
	head.Init()

	for i := 1; i <= 3; i++ {
		list.Add(head, newWidget(i).node)
	}

	got := collect(head)
	want := []int{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collect: got %v, want %v", got, want)
		}
	}
}

func TestDelMiddle(t *testing.T) {
	head := list.New[widget](nil)
	head.Init()

	w1, w2, w3 := newWidget(1), newWidget(2), newWidget(3)
	list.AddTail(head, w1.node)
	list.AddTail(head, w2.node)
	list.AddTail(head, w3.node)

	list.Del(w2.node)

	got := collect(head)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("after Del(w2): got %v, want [1 3]", got)
	}
}

func TestFirstEntry(t *testing.T) {
	head := list.New[widget](nil)
	head.Init()

	if e := list.FirstEntry(head); e != nil {
		t.Fatalf("FirstEntry on empty: got %v, want nil", e)
	}

	w := newWidget(42)
	list.AddTail(head, w.node)
	if e := list.FirstEntry(head); e == nil || e.id != 42 {
		t.Fatalf("FirstEntry: got %v, want id=42", e)
	}
}

func TestBulkMoveTailPreservesOrderAndEmptiesSrc(t *testing.T) {
	src := list.New[widget](nil)
	src.Init()
	dst := list.New[widget](nil)
	dst.Init()

	list.AddTail(dst, newWidget(1).node)
	for i := 2; i <= 4; i++ {
		list.AddTail(src, newWidget(i).node)
	}

	list.BulkMoveTail(src, dst)

	if !src.Empty() {
		t.Fatalf("src not empty after BulkMoveTail")
	}
	got := collect(dst)
	want := []int{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collect(dst): got %v, want %v", got, want)
		}
	}
}

func TestBulkMoveTailEmptySrcIsNoop(t *testing.T) {
	src := list.New[widget](nil)
	src.Init()
	dst := list.New[widget](nil)
	dst.Init()
	list.AddTail(dst, newWidget(1).node)

	list.BulkMoveTail(src, dst)

	got := collect(dst)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("collect(dst): got %v, want [1]", got)
	}
}

func TestDelSurvivesExternalCursor(t *testing.T) {
	// Del must not look at or mutate anything beyond node's own neighbors;
	// an external cursor pointing elsewhere in the list must stay valid.
	head := list.New[widget](nil)
	head.Init()

	w1, w2, w3 := newWidget(1), newWidget(2), newWidget(3)
	list.AddTail(head, w1.node)
	list.AddTail(head, w2.node)
	list.AddTail(head, w3.node)

	cursor := w3.node
	list.Del(w1.node)

	if cursor != w3.node || cursor.Entry().id != 3 {
		t.Fatalf("external cursor invalidated by unrelated Del")
	}
}
