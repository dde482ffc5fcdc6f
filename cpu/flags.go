package cpu

import (
	"github.com/ezrec/regasm/asm"
)

// Flags are the comparison flags set by arithmetic and compare instructions.
type Flags struct {
	Zero     bool // Last result was zero.
	Negative bool // Last result was negative.
}

// Update sets the flags from a result.
func (fl *Flags) Update(value int64) {
	fl.Zero = value == 0
	fl.Negative = value < 0
}

// Taken returns true if a control transfer verb jumps under these flags.
// Verbs that are not jumps are never taken.
func (fl Flags) Taken(verb asm.Verb) bool {
	switch verb {
	case asm.VERB_JMP, asm.VERB_CALL:
		return true
	case asm.VERB_JE:
		return fl.Zero
	case asm.VERB_JNE:
		return !fl.Zero
	case asm.VERB_JG:
		return !fl.Zero && !fl.Negative
	case asm.VERB_JGE:
		return fl.Zero || !fl.Negative
	case asm.VERB_JL:
		return !fl.Zero && fl.Negative
	case asm.VERB_JLE:
		return fl.Zero || fl.Negative
	}
	return false
}

// String returns the flags as "zn" with set flags upper cased.
func (fl Flags) String() string {
	z, n := "z", "n"
	if fl.Zero {
		z = "Z"
	}
	if fl.Negative {
		n = "N"
	}
	return z + n
}
