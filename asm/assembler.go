// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// identRe matches register, label and equate names.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// isIdent returns true if the word can name a register or label.
func isIdent(word string) bool {
	return identRe.MatchString(word)
}

// Assembler is a single pass assembler for regasm source text.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Equate  map[string]string // Map of equates.

	predefine map[string]string // Predefines
	program   *Program          // Program being assembled.
}

// Predefine defines a new equate or redefines an existing equate.
// Predefined equates are installed at the start of each Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Defines returns the equates the command line tools install before
// any configured defines.
func Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"INT_MIN": strconv.Itoa(math.MinInt32),
		"INT_MAX": strconv.Itoa(math.MaxInt32),
	})
}

// splitWords breaks a source line into words. Commas and whitespace
// separate words, ';' starts a comment, and string literals and $(...)
// expressions are kept whole.
func splitWords(line string) (words []string, err error) {
	const separators = " \t\r,;\""

	for n := 0; n < len(line); {
		c := line[n]
		switch {
		case c == ';':
			return
		case c == ' ' || c == '\t' || c == '\r' || c == ',':
			n++
		case c == '"':
			end := n + 1
			for end < len(line) && line[end] != '"' {
				if line[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(line) {
				err = ErrStringUnterminated
				return
			}
			words = append(words, line[n:end+1])
			n = end + 1
		case strings.HasPrefix(line[n:], "$("):
			depth := 0
			end := n + 1
			for ; end < len(line); end++ {
				if line[end] == '(' {
					depth++
				} else if line[end] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if end >= len(line) {
				err = ErrExpressionOpen
				return
			}
			words = append(words, line[n:end+1])
			n = end + 1
		default:
			end := n
			for end < len(line) && !strings.ContainsRune(separators, rune(line[end])) {
				end++
			}
			words = append(words, line[n:end])
			n = end
		}
	}

	return
}

// isLiteral returns true if the word denotes an integer rather than a
// register. Anything that parses as an integer is a literal, whatever
// registers exist.
func isLiteral(word string) bool {
	if strings.HasPrefix(word, "$(") {
		return true
	}
	_, err := strconv.ParseInt(word, 10, 32)
	return err == nil
}

// valueOf returns the integer value of a literal word.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	if strings.HasPrefix(word, "$(") {
		return asm.parenEval(word[2 : len(word)-1])
	}

	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int32(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 10, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// register interns a register name.
func (asm *Assembler) register(word string) (reg RegIndex, err error) {
	if !isIdent(word) {
		err = errors.Join(ErrRegisterInvalid, ErrParseValue(word))
		return
	}
	reg = asm.program.intern(word)
	return
}

// target checks a label reference. Labels are linked after the whole
// source has been read, so forward references are allowed.
func (asm *Assembler) target(word string) (label string, err error) {
	if !isIdent(word) {
		err = ErrTargetInvalid
		return
	}
	label = word
	return
}

// parseLine handles equates and label declarations, returning the words
// left to assemble.
func (asm *Assembler) parseLine(line string) (words []string, err error) {
	words, err = splitWords(line)
	if err != nil || len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 || !isIdent(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if strings.HasPrefix(word, `"`) {
			continue
		}
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isIdent(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.program.Labels[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.program.Labels[label] = asm.program.Len()
		words = words[1:]
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	asm.program = &Program{
		Labels: make(map[string]int, 16),
	}
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = make(map[string]string)
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		// The scanner stopped on the line after the last one read.
		lineno += 1
		line = ""
		return
	}

	// Final linking of jump labels.
	for _, op := range asm.program.Opcodes {
		label, ok := TargetOf(op.Instruction)
		if !ok {
			continue
		}
		if _, ok = asm.program.Labels[label]; !ok {
			lineno = op.LineNo
			line = op.Line
			err = ErrLabelMissing(label)
			return
		}
	}

	prog = asm.program
	asm.program = nil

	if asm.Verbose {
		log.Printf("asm: %d instructions, %d registers, %d labels",
			prog.Len(), prog.RegisterCount(), len(prog.Labels))
	}

	return
}

// parseWords assembles the words of a single command.
func (asm *Assembler) parseWords(words []string, lineno int, line string) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	verb, ok := LookupVerb(words[0])
	if !ok {
		err = fmt.Errorf("%w: %v", ErrOpcodeInvalid, words[0])
		return
	}

	args := words[1:]
	cat := verb.Category()
	switch {
	case len(args) < cat.Arity():
		err = ErrOpcodeValueMissing
		return
	case len(args) > cat.Arity():
		err = ErrOpcodeExtraArgs
		return
	}

	var ins Instruction

	switch cat {
	case CAT_UNIT:
		ins = NewBare(verb)
	case CAT_REG:
		var reg RegIndex
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		ins = NewReg(verb, reg)
	case CAT_REG_NUM:
		if isLiteral(args[0]) {
			var num int32
			num, err = asm.valueOf(args[0])
			if err != nil {
				return
			}
			ins = NewNum(verb, num)
		} else {
			var reg RegIndex
			reg, err = asm.register(args[0])
			if err != nil {
				return
			}
			ins = NewReg(verb, reg)
		}
	case CAT_REG_TEXT:
		if strings.HasPrefix(args[0], `"`) {
			var text string
			text, err = strconv.Unquote(args[0])
			if err != nil {
				err = errors.Join(ErrStringInvalid, err)
				return
			}
			ins = NewText(verb, text)
		} else {
			var reg RegIndex
			reg, err = asm.register(args[0])
			if err != nil {
				return
			}
			ins = NewReg(verb, reg)
		}
	case CAT_LABEL:
		var label string
		label, err = asm.target(args[0])
		if err != nil {
			return
		}
		ins = NewTarget(verb, label)
	case CAT_REG_REG_NUM:
		var dst RegIndex
		dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		if isLiteral(args[1]) {
			var num int32
			num, err = asm.valueOf(args[1])
			if err != nil {
				return
			}
			ins = NewRegNum(verb, dst, num)
		} else {
			var src RegIndex
			src, err = asm.register(args[1])
			if err != nil {
				return
			}
			ins = NewRegReg(verb, dst, src)
		}
	case CAT_REG_LABEL:
		var reg RegIndex
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		var label string
		label, err = asm.target(args[1])
		if err != nil {
			return
		}
		ins = NewRegTarget(verb, reg, label)
	default:
		panic(fmt.Sprintf("asm: unhandled category %d", int(cat)))
	}

	asm.program.Opcodes = append(asm.program.Opcodes, Opcode{
		LineNo:      lineno,
		Line:        line,
		Instruction: ins,
	})

	return
}
