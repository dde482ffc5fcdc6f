package cpu

import (
	"errors"

	"github.com/ezrec/regasm/asm"
	"github.com/ezrec/regasm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty         = errors.New(f("ip empty"))
	ErrStackEmpty      = errors.New(f("stack empty"))
	ErrStackFull       = errors.New(f("stack full"))
	ErrDivideByZero    = errors.New(f("divide by zero"))
	ErrLabelMissing    = errors.New(f("label missing"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrInputEnd        = errors.New(f("input exhausted"))
	ErrInputInvalid    = errors.New(f("input not an integer"))
	ErrOutput          = errors.New(f("output failed"))
	ErrInstruction     = errors.New(f("instruction invalid"))
)

// ErrFault reports the instruction and address at which execution stopped.
type ErrFault struct {
	Ip          int
	Instruction asm.Instruction
	Text        string // Instruction as source text.
	Err         error
}

func (err *ErrFault) Error() string {
	return f("fault at %d '%v' %v", err.Ip, err.Text, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
