package cpu

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chunkReader is a value type reader that cannot be compared.
type chunkReader struct {
	chunks []string
	next   *int
}

func (cr chunkReader) Read(p []byte) (int, error) {
	if *cr.next >= len(cr.chunks) {
		return 0, io.EOF
	}
	n := copy(p, cr.chunks[*cr.next])
	*cr.next += 1
	return n, nil
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestConsoleReadInt(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("1 -2\n\t+3\n\n 2147483647")}

	for _, expected := range []int32{1, -2, 3, 2147483647} {
		value, err := con.ReadInt()
		assert.NoError(err)
		assert.Equal(expected, value)
	}

	_, err := con.ReadInt()
	assert.ErrorIs(err, ErrInputEnd)
}

func TestConsoleReadInt_NoInput(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	_, err := con.ReadInt()
	assert.ErrorIs(err, ErrInputEnd)

	con.Input = strings.NewReader("   \n ")
	_, err = con.ReadInt()
	assert.ErrorIs(err, ErrInputEnd)
}

func TestConsoleReadInt_Invalid(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("12x 7")}
	_, err := con.ReadInt()
	assert.ErrorIs(err, ErrInputInvalid)

	// The bad token is consumed.
	value, err := con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(7), value)
}

func TestConsoleReadInt_SwitchInput(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("1 2")}
	value, err := con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(1), value)

	con.Input = strings.NewReader("9")
	value, err = con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(9), value)

	con.SetInput(strings.NewReader("5"))
	value, err = con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(5), value)

	con.Rewind()
	_, err = con.ReadInt()
	assert.ErrorIs(err, ErrInputEnd)
}

func TestConsoleReadInt_ValueReader(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: chunkReader{chunks: []string{"12 ", "-4\n"}, next: new(int)}}

	value, err := con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(12), value)

	value, err = con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(-4), value)

	_, err = con.ReadInt()
	assert.ErrorIs(err, ErrInputEnd)

	con.SetInput(chunkReader{chunks: []string{"99"}, next: new(int)})
	value, err = con.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(99), value)
}

func TestConsoleWrite(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	con := &Console{Output: out}

	assert.NoError(con.Write("a", false))
	assert.NoError(con.Write("b", true))
	assert.NoError(con.Write("", true))
	assert.Equal("ab\n\n", out.String())

	con.Output = nil
	assert.NoError(con.Write("dropped", true))

	con.Output = failWriter{}
	assert.ErrorIs(con.Write("x", false), ErrOutput)
}

func TestConsoleWrite_Flush(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	con := &Console{Output: bufio.NewWriter(out)}

	assert.NoError(con.Write("prompt: ", false))
	assert.Equal("prompt: ", out.String())
}
