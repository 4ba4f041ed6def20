package cpu

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Handler executes an opcode. On entry the program counter addresses the
// first operand byte; the Cpu advances past the operand after the handler
// returns.
type Handler func(cpu *Cpu, op *Opcode) error

// Opcode describes a single instruction encoding.
type Opcode struct {
	Code    uint8   // Opcode byte.
	Name    string  // Instruction mnemonic.
	Mode    Mode    // Operand addressing mode.
	Bytes   uint8   // Number of operand bytes following the opcode.
	Handler Handler // Instruction semantics.
}

// String returns the mnemonic and addressing mode.
func (op *Opcode) String() string {
	return fmt.Sprintf("{%s, %v}", op.Name, op.Mode)
}

// Format returns the assembly language representation of the instruction.
func (op *Opcode) Format(operand uint16) string {
	if op.Mode == MODE_NONE {
		return op.Name
	}

	return op.Name + " " + op.Mode.Format(operand)
}

// Table maps opcode bytes to their Opcode.
type Table struct {
	entry [256]*Opcode
}

// NewTable creates a table holding the given opcodes.
func NewTable(ops ...Opcode) (table *Table, err error) {
	table = &Table{}

	for _, op := range ops {
		err = table.Register(op)
		if err != nil {
			table = nil
			return
		}
	}

	return
}

// Register adds an opcode to the table.
// Malformed opcodes are rejected here, so they never reach execution.
func (table *Table) Register(op Opcode) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(fmt.Errorf("0x%02x %v", op.Code, &op), err)
		}
	}()

	if op.Handler == nil {
		err = ErrOpcodeHandler
		return
	}

	if op.Bytes > 2 {
		err = ErrOpcodeOperand
		return
	}

	size, ok := op.Mode.Bytes()
	if !ok || size != op.Bytes {
		err = ErrAddressingMode(op.Mode)
		return
	}

	if table.entry[op.Code] != nil {
		err = ErrOpcodeDuplicate
		return
	}

	table.entry[op.Code] = &op
	return
}

// Lookup returns the opcode registered for a byte.
func (table *Table) Lookup(code uint8) (op *Opcode, ok bool) {
	op = table.entry[code]
	ok = op != nil
	return
}

// Find returns the opcode for a mnemonic in a specific addressing mode.
func (table *Table) Find(name string, mode Mode) (op *Opcode, ok bool) {
	for _, entry := range table.entry {
		if entry != nil && entry.Mode == mode && strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}

	return
}

// All iterates over the registered opcodes in opcode byte order.
func (table *Table) All() iter.Seq[*Opcode] {
	return func(yield func(op *Opcode) bool) {
		for _, op := range table.entry {
			if op == nil {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}
