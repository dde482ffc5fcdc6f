package asm

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
)

// Opcode is a resolved instruction together with the source line it came from.
type Opcode struct {
	LineNo      int         // Source line number, 1 based.
	Line        string      // Source text of the line.
	Instruction Instruction // Resolved instruction.
}

// Program is the executable form of a source text.
//
// A Program is built once by the Assembler and is read-only afterwards.
type Program struct {
	Opcodes   []Opcode       // Instructions, in address order.
	Registers []string       // Register names, by RegIndex.
	Labels    map[string]int // Label addresses.
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Fetch returns the instruction at an address.
func (prog *Program) Fetch(ip int) (ins Instruction, ok bool) {
	if ip < 0 || ip >= len(prog.Opcodes) {
		return
	}
	return prog.Opcodes[ip].Instruction, true
}

// Debug returns the opcode at an address, or nil if there is none.
func (prog *Program) Debug(ip int) *Opcode {
	if ip < 0 || ip >= len(prog.Opcodes) {
		return nil
	}
	return &prog.Opcodes[ip]
}

// RegisterCount returns the size of the register file the program needs.
func (prog *Program) RegisterCount() int {
	return len(prog.Registers)
}

// RegisterName returns the source name of a register.
func (prog *Program) RegisterName(reg RegIndex) string {
	if reg < 0 || int(reg) >= len(prog.Registers) {
		return fmt.Sprintf("$%d", int(reg))
	}
	return prog.Registers[reg]
}

// RegisterIndex returns the index of a named register.
func (prog *Program) RegisterIndex(name string) (reg RegIndex, ok bool) {
	n := slices.Index(prog.Registers, name)
	if n < 0 {
		return
	}
	return RegIndex(n), true
}

// intern returns the index of a register, allocating it on first use.
func (prog *Program) intern(name string) RegIndex {
	reg, ok := prog.RegisterIndex(name)
	if !ok {
		reg = RegIndex(len(prog.Registers))
		prog.Registers = append(prog.Registers, name)
	}
	return reg
}

// Label returns the address bound to a label.
func (prog *Program) Label(name string) (ip int, ok bool) {
	ip, ok = prog.Labels[name]
	return
}

// Format renders an instruction with this program's register names.
func (prog *Program) Format(ins Instruction) string {
	return ins.Format(prog.RegisterName)
}

// Validate checks that every register index is inside the register file
// and every control transfer names a bound label.
func (prog *Program) Validate() (err error) {
	for ip, op := range prog.Opcodes {
		if op.Instruction == nil {
			return fmt.Errorf("%d: %w", ip, ErrOpcodeInvalid)
		}
		for _, reg := range op.Instruction.Registers() {
			if reg < 0 || int(reg) >= len(prog.Registers) {
				return fmt.Errorf("%d: %w", ip, ErrRegisterInvalid)
			}
		}
		label, ok := TargetOf(op.Instruction)
		if ok {
			if _, ok = prog.Labels[label]; !ok {
				return fmt.Errorf("%d: %w", ip, ErrLabelMissing(label))
			}
		}
	}

	return
}

// labelsAt returns the sorted labels bound to each address. Labels bound to
// the end of the program are keyed by Len().
func (prog *Program) labelsAt() map[int][]string {
	at := make(map[int][]string, len(prog.Labels))
	for label, ip := range prog.Labels {
		at[ip] = append(at[ip], label)
	}
	for ip := range at {
		slices.Sort(at[ip])
	}
	return at
}

// Lines iterates over the re-serialized source, one line per label
// declaration or instruction.
func (prog *Program) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		at := prog.labelsAt()
		for ip := 0; ip <= len(prog.Opcodes); ip++ {
			for _, label := range at[ip] {
				if !yield(label + ":") {
					return
				}
			}
			if ip == len(prog.Opcodes) {
				break
			}
			if !yield("\t" + prog.Format(prog.Opcodes[ip].Instruction)) {
				return
			}
		}
	}
}

// Listing returns the program as source text. Assembling the listing
// yields the same instructions, registers and label addresses.
func (prog *Program) Listing() string {
	var sb strings.Builder
	for line := range prog.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Tree renders the program as a tree: each label starts a block holding
// the instructions up to the next label.
func (prog *Program) Tree() *tree.Tree {
	root := tree.NewTree(tree.NodeString("program"))
	at := prog.labelsAt()

	block := root
	for ip := 0; ip <= len(prog.Opcodes); ip++ {
		if labels, ok := at[ip]; ok {
			block = root.AddChild(tree.NodeString(strings.Join(labels, ": ") + ":"))
		}
		if ip == len(prog.Opcodes) {
			break
		}
		text := fmt.Sprintf("%d: %v", ip, prog.Format(prog.Opcodes[ip].Instruction))
		block.AddChild(tree.NodeString(text))
	}

	return root
}
