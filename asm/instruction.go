package asm

import (
	"fmt"
	"strconv"
)

// RegIndex is a dense index into the register file.
type RegIndex int

// Verb is an instruction keyword.
type Verb int

const (
	VERB_MOV     = Verb(iota) // mov
	VERB_ADD                  // add
	VERB_SUB                  // sub
	VERB_MUL                  // mul
	VERB_DIV                  // div
	VERB_INC                  // inc
	VERB_DEC                  // dec
	VERB_PRINT                // print
	VERB_PRINTLN              // println
	VERB_READ                 // read
	VERB_PUSH                 // push
	VERB_POP                  // pop
	VERB_CMP                  // cmp
	VERB_JMP                  // jmp
	VERB_JE                   // je
	VERB_JNE                  // jne
	VERB_JG                   // jg
	VERB_JGE                  // jge
	VERB_JL                   // jl
	VERB_JLE                  // jle
	VERB_LOOP                 // loop
	VERB_CALL                 // call
	VERB_RET                  // ret
	verbCount
)

// Category is the operand shape a verb accepts in source text.
type Category int

const (
	CAT_UNIT        = Category(iota) // no operands
	CAT_REG                          // register
	CAT_REG_NUM                      // register or integer
	CAT_REG_TEXT                     // register or string
	CAT_LABEL                        // label
	CAT_REG_REG_NUM                  // register, then register or integer
	CAT_REG_LABEL                    // register, then label
)

// Arity returns the number of operands for the category.
func (cat Category) Arity() int {
	switch cat {
	case CAT_UNIT:
		return 0
	case CAT_REG_REG_NUM, CAT_REG_LABEL:
		return 2
	default:
		return 1
	}
}

var verbInfo = [verbCount]struct {
	name     string
	category Category
}{
	VERB_MOV:     {"mov", CAT_REG_REG_NUM},
	VERB_ADD:     {"add", CAT_REG_REG_NUM},
	VERB_SUB:     {"sub", CAT_REG_REG_NUM},
	VERB_MUL:     {"mul", CAT_REG_REG_NUM},
	VERB_DIV:     {"div", CAT_REG_REG_NUM},
	VERB_INC:     {"inc", CAT_REG},
	VERB_DEC:     {"dec", CAT_REG},
	VERB_PRINT:   {"print", CAT_REG_TEXT},
	VERB_PRINTLN: {"println", CAT_REG_TEXT},
	VERB_READ:    {"read", CAT_REG},
	VERB_PUSH:    {"push", CAT_REG_NUM},
	VERB_POP:     {"pop", CAT_REG},
	VERB_CMP:     {"cmp", CAT_REG_REG_NUM},
	VERB_JMP:     {"jmp", CAT_LABEL},
	VERB_JE:      {"je", CAT_LABEL},
	VERB_JNE:     {"jne", CAT_LABEL},
	VERB_JG:      {"jg", CAT_LABEL},
	VERB_JGE:     {"jge", CAT_LABEL},
	VERB_JL:      {"jl", CAT_LABEL},
	VERB_JLE:     {"jle", CAT_LABEL},
	VERB_LOOP:    {"loop", CAT_REG_LABEL},
	VERB_CALL:    {"call", CAT_LABEL},
	VERB_RET:     {"ret", CAT_UNIT},
}

// verbMap maps source keywords to verbs.
var verbMap = func() map[string]Verb {
	verbs := make(map[string]Verb, len(verbInfo))
	for verb, info := range verbInfo {
		verbs[info.name] = Verb(verb)
	}
	return verbs
}()

// LookupVerb returns the verb for a keyword. Keywords are case sensitive.
func LookupVerb(word string) (verb Verb, ok bool) {
	verb, ok = verbMap[word]
	return
}

func (verb Verb) valid() bool {
	return verb >= 0 && verb < verbCount
}

// String returns the source keyword of the verb.
func (verb Verb) String() string {
	if !verb.valid() {
		return fmt.Sprintf("Verb(%d)", int(verb))
	}
	return verbInfo[verb].name
}

// Category returns the operand shape accepted by the verb.
func (verb Verb) Category() Category {
	if !verb.valid() {
		panic(fmt.Sprintf("asm: unknown verb %d", int(verb)))
	}
	return verbInfo[verb].category
}

// Instruction is a single resolved program step.
//
// The set of implementations is closed: Bare, Reg, Num, Text, Target,
// RegReg, RegNum and RegTarget.
type Instruction interface {
	// Verb returns the instruction keyword.
	Verb() Verb
	// Format renders the instruction as source text, naming registers
	// with the supplied function.
	Format(name func(RegIndex) string) string
	// Registers returns every register index the instruction touches.
	Registers() []RegIndex

	instruction()
}

// Bare is an instruction with no operands.
type Bare struct {
	Op Verb
}

// Reg is an instruction with a single register operand.
type Reg struct {
	Op  Verb
	Reg RegIndex
}

// Num is an instruction with a single integer operand.
type Num struct {
	Op  Verb
	Num int32
}

// Text is an instruction with a single string operand.
type Text struct {
	Op   Verb
	Text string
}

// Target is an instruction that transfers control to a label.
type Target struct {
	Op    Verb
	Label string
}

// RegReg is a two register instruction. Dst is also the left hand side
// of a comparison.
type RegReg struct {
	Op       Verb
	Dst, Src RegIndex
}

// RegNum is a register and integer instruction.
type RegNum struct {
	Op  Verb
	Dst RegIndex
	Num int32
}

// RegTarget is a register and label instruction.
type RegTarget struct {
	Op    Verb
	Reg   RegIndex
	Label string
}

func badShape(verb Verb, shape string) string {
	return fmt.Sprintf("asm: %v does not take %v operands", verb, shape)
}

// NewBare creates an operand-less instruction.
func NewBare(verb Verb) Instruction {
	switch verb {
	case VERB_RET:
		return Bare{Op: verb}
	}
	panic(badShape(verb, "no"))
}

// NewReg creates a single register instruction.
func NewReg(verb Verb, reg RegIndex) Instruction {
	switch verb {
	case VERB_INC, VERB_DEC, VERB_PUSH, VERB_POP, VERB_PRINT, VERB_PRINTLN, VERB_READ:
		return Reg{Op: verb, Reg: reg}
	}
	panic(badShape(verb, "register"))
}

// NewNum creates a single integer instruction.
func NewNum(verb Verb, num int32) Instruction {
	switch verb {
	case VERB_PUSH:
		return Num{Op: verb, Num: num}
	}
	panic(badShape(verb, "integer"))
}

// NewText creates a single string instruction.
func NewText(verb Verb, text string) Instruction {
	switch verb {
	case VERB_PRINT, VERB_PRINTLN:
		return Text{Op: verb, Text: text}
	}
	panic(badShape(verb, "string"))
}

// NewTarget creates a control transfer instruction.
func NewTarget(verb Verb, label string) Instruction {
	switch verb {
	case VERB_JMP, VERB_JE, VERB_JNE, VERB_JG, VERB_JGE, VERB_JL, VERB_JLE, VERB_CALL:
		return Target{Op: verb, Label: label}
	}
	panic(badShape(verb, "label"))
}

// NewRegReg creates a register-register instruction.
func NewRegReg(verb Verb, dst, src RegIndex) Instruction {
	switch verb {
	case VERB_MOV, VERB_ADD, VERB_SUB, VERB_MUL, VERB_DIV, VERB_CMP:
		return RegReg{Op: verb, Dst: dst, Src: src}
	}
	panic(badShape(verb, "register-register"))
}

// NewRegNum creates a register-integer instruction.
func NewRegNum(verb Verb, dst RegIndex, num int32) Instruction {
	switch verb {
	case VERB_MOV, VERB_ADD, VERB_SUB, VERB_MUL, VERB_DIV, VERB_CMP:
		return RegNum{Op: verb, Dst: dst, Num: num}
	}
	panic(badShape(verb, "register-integer"))
}

// NewRegTarget creates a register-label instruction.
func NewRegTarget(verb Verb, reg RegIndex, label string) Instruction {
	switch verb {
	case VERB_LOOP:
		return RegTarget{Op: verb, Reg: reg, Label: label}
	}
	panic(badShape(verb, "register-label"))
}

func (ins Bare) Verb() Verb      { return ins.Op }
func (ins Reg) Verb() Verb       { return ins.Op }
func (ins Num) Verb() Verb       { return ins.Op }
func (ins Text) Verb() Verb      { return ins.Op }
func (ins Target) Verb() Verb    { return ins.Op }
func (ins RegReg) Verb() Verb    { return ins.Op }
func (ins RegNum) Verb() Verb    { return ins.Op }
func (ins RegTarget) Verb() Verb { return ins.Op }

func (Bare) instruction()      {}
func (Reg) instruction()       {}
func (Num) instruction()       {}
func (Text) instruction()      {}
func (Target) instruction()    {}
func (RegReg) instruction()    {}
func (RegNum) instruction()    {}
func (RegTarget) instruction() {}

func (ins Bare) Registers() []RegIndex      { return nil }
func (ins Reg) Registers() []RegIndex       { return []RegIndex{ins.Reg} }
func (ins Num) Registers() []RegIndex       { return nil }
func (ins Text) Registers() []RegIndex      { return nil }
func (ins Target) Registers() []RegIndex    { return nil }
func (ins RegReg) Registers() []RegIndex    { return []RegIndex{ins.Dst, ins.Src} }
func (ins RegNum) Registers() []RegIndex    { return []RegIndex{ins.Dst} }
func (ins RegTarget) Registers() []RegIndex { return []RegIndex{ins.Reg} }

func (ins Bare) Format(name func(RegIndex) string) string {
	return ins.Op.String()
}

func (ins Reg) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v", ins.Op, name(ins.Reg))
}

func (ins Num) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %d", ins.Op, ins.Num)
}

func (ins Text) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v", ins.Op, strconv.Quote(ins.Text))
}

func (ins Target) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v", ins.Op, ins.Label)
}

func (ins RegReg) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v, %v", ins.Op, name(ins.Dst), name(ins.Src))
}

func (ins RegNum) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v, %d", ins.Op, name(ins.Dst), ins.Num)
}

func (ins RegTarget) Format(name func(RegIndex) string) string {
	return fmt.Sprintf("%v %v, %v", ins.Op, name(ins.Reg), ins.Label)
}

// TargetOf returns the label an instruction transfers control to, if any.
func TargetOf(ins Instruction) (label string, ok bool) {
	switch ins := ins.(type) {
	case Target:
		return ins.Label, true
	case RegTarget:
		return ins.Label, true
	}
	return
}
