package cpu

import (
	"bufio"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Console provides the program's text I/O. It reads whitespace delimited
// integers from Input and writes text to Output.
type Console struct {
	Input  io.Reader
	Output io.Writer

	source io.Reader
	reader *bufio.Reader
}

// flusher is implemented by buffered outputs such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Rewind drops any buffered input.
func (con *Console) Rewind() {
	con.source = nil
	con.reader = nil
}

// SetInput replaces the input reader, dropping any buffered input.
func (con *Console) SetInput(rd io.Reader) {
	con.Input = rd
	con.Rewind()
}

// sameReader reports whether Input is still the reader being buffered.
// Readers of uncomparable types are only swapped through SetInput.
func sameReader(a, b io.Reader) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || !ta.Comparable() {
		return true
	}
	return a == b
}

func (con *Console) input() *bufio.Reader {
	if con.reader == nil || !sameReader(con.source, con.Input) {
		con.source = con.Input
		if rd, ok := con.Input.(*bufio.Reader); ok {
			con.reader = rd
		} else {
			con.reader = bufio.NewReader(con.Input)
		}
	}
	return con.reader
}

// ReadInt blocks until the next whitespace delimited token is available,
// and returns it as an integer.
func (con *Console) ReadInt() (value int32, err error) {
	if con.Input == nil {
		err = ErrInputEnd
		return
	}

	rd := con.input()

	var token strings.Builder
	for {
		var r rune
		r, _, err = rd.ReadRune()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			err = errors.Join(ErrInputEnd, err)
			return
		}
		if unicode.IsSpace(r) {
			if token.Len() == 0 {
				continue
			}
			break
		}
		token.WriteRune(r)
	}

	if token.Len() == 0 {
		err = ErrInputEnd
		return
	}

	v64, perr := strconv.ParseInt(token.String(), 10, 32)
	if perr != nil {
		err = errors.Join(ErrInputInvalid, perr)
		return
	}

	value = int32(v64)
	return
}

// Write writes text to the output, optionally followed by a newline, and
// flushes buffered outputs so prompts are visible before the next read.
func (con *Console) Write(text string, newline bool) (err error) {
	if con.Output == nil {
		return
	}

	if newline {
		text += "\n"
	}

	_, err = io.WriteString(con.Output, text)
	if err != nil {
		err = errors.Join(ErrOutput, err)
		return
	}

	if fl, ok := con.Output.(flusher); ok {
		err = fl.Flush()
		if err != nil {
			err = errors.Join(ErrOutput, err)
		}
	}

	return
}
