// Package asm implements the instruction set, program representation and
// assembler for the regasm register machine language.
//
// A program is a sequence of commands and label declarations, one per line.
// Registers are named by identifiers and interned into a dense register
// file index on first mention. Labels bind to the address of the next
// instruction and may be referenced before they are declared.
//
// The assembler also supports `.equ` textual equates and `$(...)`
// compile-time expressions evaluated with Starlark.
package asm
