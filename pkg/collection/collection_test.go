package collection_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/ndthang/techmart/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, strconv.Itoa)
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Filter = %v", got)
	}
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]string{"a", "bb", "ccc"}, func(s string) bool { return len(s) == 2 })
	if !ok || v != "bb" {
		t.Errorf("First = %q, %v", v, ok)
	}
	_, ok = collection.First([]string{"a"}, func(s string) bool { return len(s) == 9 })
	if ok {
		t.Error("expected no match")
	}
}

func TestSum(t *testing.T) {
	type row struct{ total float64 }
	rows := []row{{40}, {60}}
	if got := collection.Sum(rows, func(r row) float64 { return r.total }); got != 100 {
		t.Errorf("Sum = %v, want 100", got)
	}
	if got := collection.Sum([]row(nil), func(r row) float64 { return r.total }); got != 0 {
		t.Errorf("Sum(nil) = %v, want 0", got)
	}
}

func TestGroupBy(t *testing.T) {
	got := collection.GroupBy([]string{"apple", "avocado", "banana"}, func(s string) string { return s[:1] })
	if len(got["a"]) != 2 || len(got["b"]) != 1 {
		t.Errorf("GroupBy = %v", got)
	}
}

func TestKeyByLaterWins(t *testing.T) {
	type user struct {
		id   int
		name string
	}
	got := collection.KeyBy([]user{{1, "old"}, {1, "new"}}, func(u user) int { return u.id })
	if got[1].name != "new" {
		t.Errorf("KeyBy collision = %v, want new", got[1].name)
	}
}

func TestSortByLeavesInputUntouched(t *testing.T) {
	in := []string{"c", "a", "b"}
	got := collection.SortBy(in, func(s string) string { return s })
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortBy = %v", got)
	}
	if !reflect.DeepEqual(in, []string{"c", "a", "b"}) {
		t.Errorf("input mutated: %v", in)
	}
}
