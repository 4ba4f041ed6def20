// Package cpu implements the instruction-cycle engine and assembler for a
// MOS 6502 style 8-bit processor.
//
// The engine consists of a flat memory of 65535 bytes, an accumulator (A),
// two index registers (X, Y), a status register and a 16-bit program counter.
// Each cycle fetches an opcode at the program counter, resolves its operand
// through one of the addressing modes, and executes the handler registered
// for that opcode in the Table. New instructions are added by registering an
// Opcode; the fetch loop itself never changes.
//
// The assembler provides a small mnemonic syntax for building program images,
// supporting labels, equates, data directives, and compile-time expression
// evaluation.
package cpu
