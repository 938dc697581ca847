package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsMatrix(t *testing.T) {
	assert.Equal(t, "matrix", Default().Key)
	assert.Equal(t, "Matrix", Default().Name)
}

func TestKeysOrder(t *testing.T) {
	assert.Equal(t, []string{"matrix", "dracula", "monokai", "solarizedDark", "nord"}, Keys())
}

func TestLookupAndGet(t *testing.T) {
	th, ok := Lookup("nord")
	assert.True(t, ok)
	assert.Equal(t, "Nord", th.Name)

	_, ok = Lookup("vaporwave")
	assert.False(t, ok)
	assert.Equal(t, DefaultKey, Get("vaporwave").Key)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	assert.Equal(t, "Matrix", Default().Name)
}
