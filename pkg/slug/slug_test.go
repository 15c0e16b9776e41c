package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectchronos/chronos/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Acme Holdings", "acme-holdings"},
		{"ACME LLC", "acme-llc"},
		{"already-slugged", "already-slugged"},
		{"Multi Word Entity Name", "multi-word-entity-name"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.Make(tc.name))
		})
	}
}

func TestMakeStable(t *testing.T) {
	// Repeated derivation must yield the same key.
	for i := 0; i < 3; i++ {
		assert.Equal(t, "foo-llc", slug.Make("Foo LLC"))
	}
}

func TestMakeCollision(t *testing.T) {
	// Distinct names can collide; callers rely on last-write-wins.
	assert.Equal(t, slug.Make("Foo Bar"), slug.Make("FOO BAR"))
}
