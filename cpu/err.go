package cpu

import (
	"errors"

	"github.com/ezrec/mos6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("cpu halted"))
	ErrOpcodeDuplicate = errors.New(f("opcode duplicated"))
	ErrOpcodeHandler   = errors.New(f("opcode handler missing"))
	ErrOpcodeOperand   = errors.New(f("opcode operand size"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrModeInvalid        = errors.New(f("addressing mode invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrUnimplemented is the opcode byte fetched when no handler is registered for it.
type ErrUnimplemented uint8

func (eu ErrUnimplemented) Error() string {
	return f("unimplemented opcode 0x%02x", uint8(eu))
}

func (eu ErrUnimplemented) Is(err error) (ok bool) {
	_, ok = err.(ErrUnimplemented)
	return
}

// ErrAddressingMode is the mode an operand address could not be resolved for.
type ErrAddressingMode Mode

func (em ErrAddressingMode) Error() string {
	return f("addressing mode %v not supported", Mode(em).String())
}

func (em ErrAddressingMode) Is(err error) (ok bool) {
	_, ok = err.(ErrAddressingMode)
	return
}

// ErrAddressRange is a memory address outside of the address space.
type ErrAddressRange uint16

func (ea ErrAddressRange) Error() string {
	return f("address 0x%04x out of range", uint16(ea))
}

func (ea ErrAddressRange) Is(err error) (ok bool) {
	_, ok = err.(ErrAddressRange)
	return
}

// ErrProgramSize is a program image too large for the space above its origin.
type ErrProgramSize struct {
	Origin uint16
	Size   int
}

func (err ErrProgramSize) Error() string {
	return f("program of %v bytes does not fit at 0x%04x", err.Size, err.Origin)
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
