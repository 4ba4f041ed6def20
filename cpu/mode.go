package cpu

import (
	"fmt"
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_NONE        = Mode(0) // none
	MODE_IMMEDIATE   = Mode(1) // imm
	MODE_ZERO_PAGE   = Mode(2) // zp
	MODE_ZERO_PAGE_X = Mode(3) // zp,x
	MODE_ZERO_PAGE_Y = Mode(4) // zp,y
	MODE_ABSOLUTE    = Mode(5) // abs
	MODE_ABSOLUTE_X  = Mode(6) // abs,x
	MODE_ABSOLUTE_Y  = Mode(7) // abs,y
	MODE_INDIRECT_X  = Mode(8) // (zp,x)
	MODE_INDIRECT_Y  = Mode(9) // (zp),y
)

// Bytes returns the operand size of the mode.
func (mode Mode) Bytes() (size uint8, ok bool) {
	switch mode {
	case MODE_NONE:
		size, ok = 0, true
	case MODE_IMMEDIATE, MODE_ZERO_PAGE, MODE_ZERO_PAGE_X, MODE_ZERO_PAGE_Y,
		MODE_INDIRECT_X, MODE_INDIRECT_Y:
		size, ok = 1, true
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y:
		size, ok = 2, true
	}

	return
}

// Format renders an operand value in assembler syntax for this mode.
func (mode Mode) Format(operand uint16) (text string) {
	switch mode {
	case MODE_IMMEDIATE:
		text = fmt.Sprintf("#$%02X", operand&0xff)
	case MODE_ZERO_PAGE:
		text = fmt.Sprintf("$%02X", operand&0xff)
	case MODE_ZERO_PAGE_X:
		text = fmt.Sprintf("$%02X,X", operand&0xff)
	case MODE_ZERO_PAGE_Y:
		text = fmt.Sprintf("$%02X,Y", operand&0xff)
	case MODE_ABSOLUTE:
		text = fmt.Sprintf("$%04X", operand)
	case MODE_ABSOLUTE_X:
		text = fmt.Sprintf("$%04X,X", operand)
	case MODE_ABSOLUTE_Y:
		text = fmt.Sprintf("$%04X,Y", operand)
	case MODE_INDIRECT_X:
		text = fmt.Sprintf("($%02X,X)", operand&0xff)
	case MODE_INDIRECT_Y:
		text = fmt.Sprintf("($%02X),Y", operand&0xff)
	}

	return
}
