package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(program ...string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x8000", asm.Equate["PROGRAM_ORIGIN"])
	assert.Equal("0xfffc", asm.Equate["RESET_VECTOR"])
	assert.Equal("0xffff", asm.Equate["MEMORY_SIZE"])
}

func TestAssembler_Modes(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		bytes []byte
	}){
		{"BRK", []byte{0x00}},
		{"LDA #$05", []byte{0xa9, 0x05}},
		{"lda #5", []byte{0xa9, 0x05}},
		{"LDA #%1010", []byte{0xa9, 0x0a}},
		{"LDA #-1", []byte{0xa9, 0xff}},
		{"LDA $C1", []byte{0xa5, 0xc1}},
		{"LDA $C1,X", []byte{0xb5, 0xc1}},
		{"LDA $C1, x", []byte{0xb5, 0xc1}},
		{"LDA $C1,Y", []byte{0xb9, 0xc1, 0x00}},
		{"LDA $C1C2", []byte{0xad, 0xc2, 0xc1}},
		{"LDA $00C1", []byte{0xa5, 0xc1}},
		{"LDA $C1C2,X", []byte{0xbd, 0xc2, 0xc1}},
		{"LDA $C1C2,Y", []byte{0xb9, 0xc2, 0xc1}},
		{"LDA ($04,X)", []byte{0xa1, 0x04}},
		{"LDA ($04),Y", []byte{0xb1, 0x04}},
		{"LDX $10,Y", []byte{0xb6, 0x10}},
		{"LDY 0x1234,X", []byte{0xbc, 0x34, 0x12}},
		{"STA $10", []byte{0x85, 0x10}},
		{"TAX", []byte{0xaa}},
		{"INX", []byte{0xe8}},
		{"NOP ; comment", []byte{0xea}},
	}

	for _, entry := range table {
		prog, err := assemble(entry.text)
		assert.NoError(err, entry.text)
		if err != nil {
			continue
		}
		assert.Equal(entry.bytes, prog.Binary(), entry.text)
	}
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"start:  LDA data",
		"        BRK",
		"data:   .byte $42, 'A', '\\n'",
		"table:  .word $1234, start, table",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(uint16(0x8000), asm.Label["start"])
	assert.Equal(uint16(0x8004), asm.Label["data"])
	assert.Equal(uint16(0x8007), asm.Label["table"])

	expected := []byte{
		0xad, 0x04, 0x80,
		0x00,
		0x42, 0x41, 0x0a,
		0x34, 0x12, 0x00, 0x80, 0x07, 0x80,
	}
	assert.Equal(expected, prog.Binary())

	cpu := NewCpu()
	err = cpu.LoadAndRun(prog.Binary())
	assert.NoError(err)
	assert.Equal(uint8(0x42), cpu.A)
}

func TestAssembler_Equate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("PORT", "$10")

	program := []string{
		".equ VALUE 5",
		"LDA #VALUE",
		"LDA #$(VALUE * 2)",
		"LDX #'A'",
		"STA PORT",
		"LDY #$(PROGRAM_ORIGIN // 256)",
		"LDA #$(LINENO)",
		"LDA ($(VALUE - 1),X)",
		"LDA ($(VALUE - 1)),Y",
		"LDA $((VALUE + 1) * 2),X",
		".byte $(VALUE), $(VALUE * 3)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []byte{
		0xa9, 0x05,
		0xa9, 0x0a,
		0xa2, 0x41,
		0x85, 0x10,
		0xa0, 0x80,
		0xa9, 0x07,
		0xa1, 0x04,
		0xb1, 0x04,
		0xb5, 0x0c,
		0x05, 0x0f,
	}
	assert.Equal(expected, prog.Binary())
	assert.Equal("5", asm.Equate["VALUE"])
}

func TestAssembler_Table(t *testing.T) {
	assert := assert.New(t)

	tab := StandardTable()
	err := tab.Register(Opcode{0xca, "DEX", MODE_NONE, 0, nop})
	assert.NoError(err)

	asm := &Assembler{Table: tab}
	prog, err := asm.Parse(strings.NewReader("DEX"))
	assert.NoError(err)
	assert.Equal([]byte{0xca}, prog.Binary())

	_, err = assemble("DEX")
	assert.True(errors.Is(err, ErrInstructionInvalid))
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []string
		lineno  int
		err     error
	}){
		{[]string{"FOO"}, 1, ErrInstructionInvalid},
		{[]string{"NOP", "TAX #1"}, 2, ErrModeInvalid},
		{[]string{"STA #1"}, 1, ErrModeInvalid},
		{[]string{"LDA"}, 1, ErrModeInvalid},
		{[]string{"x: NOP", "LDA #x"}, 2, ErrModeInvalid},
		{[]string{"LDA 1,2,3"}, 1, ErrOpcodeExtraArgs},
		{[]string{"LDA #1,X"}, 1, ErrOpcodeExtraArgs},
		{[]string{"LDA #$100"}, 1, ErrValueRange},
		{[]string{".byte 256"}, 1, ErrValueRange},
		{[]string{"x: .byte x"}, 1, ErrValueRange},
		{[]string{".byte"}, 1, ErrOpcodeValueMissing},
		{[]string{".word 1,"}, 1, ErrOpcodeValueMissing},
		{[]string{".equ A"}, 1, ErrEquateSyntax},
		{[]string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{[]string{".equ PROGRAM_ORIGIN 1"}, 1, ErrEquateDuplicate},
		{[]string{"a: NOP", "a: NOP"}, 2, ErrLabelDuplicate},
		{[]string{"1a: NOP"}, 1, ErrLabelInvalid},
	}

	for _, entry := range table {
		_, err := assemble(entry.program...)
		assert.True(errors.Is(err, entry.err), "%v: %v", entry.program, err)

		var syntaxErr *ErrSyntax
		if assert.True(errors.As(err, &syntaxErr), "%v", entry.program) {
			assert.Equal(entry.lineno, syntaxErr.LineNo, "%v", entry.program)
		}
	}
}

func TestAssembler_LabelMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble("NOP", "LDA missing", "BRK")

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("missing"), missing)

	var syntaxErr *ErrSyntax
	assert.True(errors.As(err, &syntaxErr))
	assert.Equal(2, syntaxErr.LineNo)
	assert.Equal("LDA missing", syntaxErr.Line)
}

func TestAssembler_Parse(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble("LDA #$ZZ")
	var numberErr ErrParseNumber
	assert.True(errors.As(err, &numberErr))

	_, err = assemble("LDA #$(1 +)")
	assert.Error(err)

	_, err = assemble(`LDA #$("text")`)
	var exprErr ErrParseExpression
	assert.True(errors.As(err, &exprErr))

	_, err = assemble("LDA ($(1 + (2),X")
	assert.True(errors.As(err, &exprErr))
	assert.Equal(ErrParseExpression("1 + (2),X"), exprErr)
}
