package cpu

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/regasm/asm"
)

// Cpu is the execution state for a single run of a program.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *asm.Program // Program being executed.

	Ip       int     // Current instruction pointer.
	Register []int32 // Register file.
	Stack    Stack   // Operand and return address stack.
	Flags    Flags   // Comparison flags.
	Console  Console // Text I/O.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU for a program.
func NewCpu(prog *asm.Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "% 8s: %d\n", "ip", cpu.Ip)
	fmt.Fprintf(&sb, "% 8s: %v\n", "flags", cpu.Flags)
	for n, value := range cpu.Register {
		name := strconv.Itoa(n)
		if cpu.Program != nil {
			name = cpu.Program.RegisterName(asm.RegIndex(n))
		}
		fmt.Fprintf(&sb, "% 8s: %d\n", name, value)
	}
	top, ok := cpu.Stack.Peek()
	if ok {
		fmt.Fprintf(&sb, "% 8s: %d (depth %d)\n", "stack", top, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&sb, "% 8s: ----\n", "stack")
	}

	return sb.String()
}

// Reset the CPU state.
// - Validates the program.
// - Sizes and zeros the register file.
// - Clears the stack and flags.
// - Sets Ip to the first instruction.
func (cpu *Cpu) Reset() (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if cpu.Program == nil {
		cpu.Program = &asm.Program{}
	}

	err = cpu.Program.Validate()
	if err != nil {
		err = errors.Join(ErrInstruction, err)
		return
	}

	count := cpu.Program.RegisterCount()
	if cap(cpu.Register) >= count {
		cpu.Register = cpu.Register[:count]
		clear(cpu.Register)
	} else {
		cpu.Register = make([]int32, count)
	}

	cpu.Stack.Reset()
	cpu.Flags = Flags{}
	cpu.Ip = 0
	cpu.Ticks = 0

	return
}

// Done returns true once the instruction pointer has left the program.
func (cpu *Cpu) Done() bool {
	return cpu.Program == nil || cpu.Ip < 0 || cpu.Ip >= cpu.Program.Len()
}

// FetchInstruction returns the instruction at Ip.
func (cpu *Cpu) FetchInstruction() (ins asm.Instruction, err error) {
	if cpu.Program == nil {
		err = ErrIpEmpty
		return
	}

	ins, ok := cpu.Program.Fetch(cpu.Ip)
	if !ok {
		err = ErrIpEmpty
		return
	}

	return
}

// Tick executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	ins, err := cpu.FetchInstruction()
	if err != nil {
		return
	}

	err = cpu.Execute(ins)
	return
}

// Run executes until the instruction pointer leaves the program or an
// instruction faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Done() {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// format renders an instruction for logs and faults.
func (cpu *Cpu) format(ins asm.Instruction) string {
	if cpu.Program == nil {
		return ins.Format(func(reg asm.RegIndex) string { return fmt.Sprintf("$%d", int(reg)) })
	}
	return cpu.Program.Format(ins)
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins asm.Instruction) (err error) {
	defer func() {
		if err != nil {
			err = &ErrFault{Ip: cpu.Ip, Instruction: ins, Text: cpu.format(ins), Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, cpu.format(ins))
	}

	next_ip := cpu.Ip + 1
	verb := ins.Verb()

	switch ins := ins.(type) {
	case asm.Bare:
		switch verb {
		case asm.VERB_RET:
			value, ok := cpu.Stack.Pop()
			if !ok {
				err = ErrStackEmpty
				return
			}
			next_ip = int(value)
		default:
			err = ErrInstruction
			return
		}
	case asm.Reg:
		var reg *int32
		reg, err = cpu.register(ins.Reg)
		if err != nil {
			return
		}
		switch verb {
		case asm.VERB_INC:
			*reg += 1
			cpu.Flags.Update(int64(*reg))
		case asm.VERB_DEC:
			*reg -= 1
			cpu.Flags.Update(int64(*reg))
		case asm.VERB_PUSH:
			err = cpu.push(*reg)
		case asm.VERB_POP:
			value, ok := cpu.Stack.Pop()
			if !ok {
				err = ErrStackEmpty
				return
			}
			*reg = value
		case asm.VERB_READ:
			var value int32
			value, err = cpu.Console.ReadInt()
			if err != nil {
				return
			}
			*reg = value
		case asm.VERB_PRINT, asm.VERB_PRINTLN:
			err = cpu.Console.Write(strconv.FormatInt(int64(*reg), 10), verb == asm.VERB_PRINTLN)
		default:
			err = ErrInstruction
		}
	case asm.Num:
		switch verb {
		case asm.VERB_PUSH:
			err = cpu.push(ins.Num)
		default:
			err = ErrInstruction
		}
	case asm.Text:
		switch verb {
		case asm.VERB_PRINT, asm.VERB_PRINTLN:
			err = cpu.Console.Write(ins.Text, verb == asm.VERB_PRINTLN)
		default:
			err = ErrInstruction
		}
	case asm.Target:
		if verb == asm.VERB_CALL {
			err = cpu.push(int32(next_ip))
			if err != nil {
				return
			}
		}
		next_ip, err = cpu.jumpIf(cpu.Flags.Taken(verb), ins.Label, next_ip)
	case asm.RegReg:
		var dst, src *int32
		dst, err = cpu.register(ins.Dst)
		if err != nil {
			return
		}
		src, err = cpu.register(ins.Src)
		if err != nil {
			return
		}
		err = cpu.doAlu(verb, dst, *src)
	case asm.RegNum:
		var dst *int32
		dst, err = cpu.register(ins.Dst)
		if err != nil {
			return
		}
		err = cpu.doAlu(verb, dst, ins.Num)
	case asm.RegTarget:
		var reg *int32
		reg, err = cpu.register(ins.Reg)
		if err != nil {
			return
		}
		switch verb {
		case asm.VERB_LOOP:
			*reg -= 1
			cpu.Flags.Update(int64(*reg))
			next_ip, err = cpu.jumpIf(*reg > 0, ins.Label, next_ip)
		default:
			err = ErrInstruction
		}
	default:
		err = ErrInstruction
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// register returns the storage for a register index.
func (cpu *Cpu) register(reg asm.RegIndex) (value *int32, err error) {
	if reg < 0 || int(reg) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}
	value = &cpu.Register[reg]
	return
}

// push pushes a value, honouring the stack limit.
func (cpu *Cpu) push(value int32) (err error) {
	if cpu.Stack.Full() {
		err = ErrStackFull
		return
	}
	cpu.Stack.Push(value)
	return
}

// jumpIf returns the label address if cond is set, otherwise next_ip.
func (cpu *Cpu) jumpIf(cond bool, label string, next_ip int) (ip int, err error) {
	ip = next_ip
	if !cond {
		return
	}

	if cpu.Program == nil {
		err = errors.Join(ErrLabelMissing, asm.ErrLabelMissing(label))
		return
	}

	ip, ok := cpu.Program.Label(label)
	if !ok {
		err = errors.Join(ErrLabelMissing, asm.ErrLabelMissing(label))
	}
	return
}

// doAlu performs the requested ALU action on dst. Comparisons only set
// the flags, from the exact (unwrapped) difference.
func (cpu *Cpu) doAlu(verb asm.Verb, dst *int32, value int32) (err error) {
	input := *dst

	var output int32
	switch verb {
	case asm.VERB_MOV:
		*dst = value
		return
	case asm.VERB_CMP:
		cpu.Flags.Update(int64(input) - int64(value))
		return
	case asm.VERB_ADD:
		output = input + value
	case asm.VERB_SUB:
		output = input - value
	case asm.VERB_MUL:
		output = input * value
	case asm.VERB_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input / value
	default:
		err = ErrInstruction
		return
	}

	*dst = output
	cpu.Flags.Update(int64(output))

	return
}
