package utils

import (
	"reflect"
	"testing"
)

func TestUniqueTrimmedStrings(t *testing.T) {
	t.Parallel()

	got := UniqueTrimmedStrings([]string{" a ", "b", "a", "", "  ", "b "})
	want := []string{"a", "b"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UniqueTrimmedStrings = %v, want %v", got, want)
	}
}

func TestUniqueTrimmedStringsEmpty(t *testing.T) {
	t.Parallel()

	if got := UniqueTrimmedStrings(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %v", got)
	}
}
