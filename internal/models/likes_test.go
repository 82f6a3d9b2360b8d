package models

import (
	"reflect"
	"testing"
)

func TestHasLike(t *testing.T) {
	likes := []string{"u1", "u2"}
	if !HasLike(likes, "u2") {
		t.Error("expected u2 to be found")
	}
	if HasLike(likes, "u3") {
		t.Error("did not expect u3 to be found")
	}
	if HasLike(nil, "u1") {
		t.Error("nil set must not contain anything")
	}
}

func TestToggleLike(t *testing.T) {
	tests := []struct {
		name   string
		likes  []string
		userID string
		want   []string
	}{
		{"add to empty", nil, "u2", []string{"u2"}},
		{"add to existing", []string{"u1"}, "u2", []string{"u1", "u2"}},
		{"remove only", []string{"u2"}, "u2", []string{}},
		{"remove middle", []string{"u1", "u2", "u3"}, "u2", []string{"u1", "u3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleLike(tt.likes, tt.userID)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToggleLike(%v, %q) = %v; want %v", tt.likes, tt.userID, got, tt.want)
			}
		})
	}
}

func TestToggleLike_DoesNotMutateInput(t *testing.T) {
	likes := []string{"u1", "u2"}
	_ = ToggleLike(likes, "u1")
	if !reflect.DeepEqual(likes, []string{"u1", "u2"}) {
		t.Errorf("input modified: %v", likes)
	}
}

func TestToggleLike_TwiceRestoresSet(t *testing.T) {
	orig := []string{"a", "b"}
	twice := ToggleLike(ToggleLike(orig, "c"), "c")
	if !reflect.DeepEqual(twice, orig) {
		t.Errorf("toggle twice = %v; want %v", twice, orig)
	}
}
