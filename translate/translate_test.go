package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("pc 3", From("pc %v", 3))
	assert.Equal("halted", From("halted"))
}

func TestFprintf(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	n, err := Fprintf(buff, "%v: %v", "MOV", "5")
	assert.NoError(err)
	assert.Equal(6, n)
	assert.Equal("MOV: 5", buff.String())
}
