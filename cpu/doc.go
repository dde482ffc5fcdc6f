// Package cpu implements the execution engine for regasm programs.
//
// The CPU consists of an instruction pointer (Ip), a register file sized to
// the program's register count, an operand stack shared by push/pop and
// call/ret, and a pair of comparison flags (zero, negative). Each Tick
// fetches the instruction at Ip, executes it, and advances Ip. A program
// finishes when Ip leaves the instruction range.
package cpu
