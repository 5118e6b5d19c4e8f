package merkle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoot_Empty(t *testing.T) {
	assert.Equal(t, "", Root(nil))
}

func TestRoot_SingleLeafIsItsOwnRoot(t *testing.T) {
	leaf := Hash("BL:MAEU123456")
	assert.Equal(t, leaf, Root([]string{leaf}))
}

func TestRoot_PairwiseFold(t *testing.T) {
	a := Hash("a")
	b := Hash("b")
	assert.Equal(t, Hash(a+b), Root([]string{a, b}))
}

func TestRoot_OddLeavesDuplicateLast(t *testing.T) {
	a := Hash("a")
	b := Hash("b")
	c := Hash("c")

	want := Hash(Hash(a+b) + Hash(c+c))
	assert.Equal(t, want, Root([]string{a, b, c}))
}

func TestRoot_DoesNotMutateInput(t *testing.T) {
	leaves := []string{Hash("a"), Hash("b"), Hash("c")}
	Root(leaves)
	assert.Len(t, leaves, 3)
}
