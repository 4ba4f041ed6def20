package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mos6502/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(TICK_LIMIT, emu.TickLimit)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("1048576", defines["TICK_LIMIT"])
	assert.Equal("0x8000", defines["PROGRAM_ORIGIN"])

	// Empty program halts on the first tick.
	err := emu.Reset()
	assert.NoError(err)
	err = emu.Run()
	assert.NoError(err)
	assert.True(emu.Halted)
	assert.Equal(uint16(0x8001), emu.Pc)
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	err = emu.Reset()
	assert.NoError(err)

	prog := emu.Program
	for n, line := range prog.Lines {
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		assert.Equal(line.Addr, emu.Pc, here)

		done, err := emu.Tick()
		assert.NoError(err, here)
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.Equal(n == len(prog.Lines)-1, done, here)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_Single(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		".equ COUNT $C0",
		"        LDA #COUNT",
		"        TAX",
		"        INX",
		"        STA $10",
		"        LDY #$(TICK_LIMIT // 1048576 - 1)",
		"        BRK",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint8(0xc0), emu.A)
	assert.Equal(uint8(0xc1), emu.X)
	assert.Equal(uint8(0x00), emu.Y)
	assert.Equal(uint8(0xc0), emu.Memory.Data[0x10])
	assert.Equal(6, emu.Ticks)
	assert.True(emu.Status.Has(cpu.STATUS_Z))
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.Assemble(strings.NewReader("LDA $10\nBRK"))
	assert.NoError(err)

	emu.Memory.Data[0x10] = 0x55
	err = emu.Reset()
	assert.NoError(err)
	assert.Equal(uint8(0x00), emu.Memory.Data[0x10])
	assert.Equal(uint8(0xa5), emu.Memory.Data[cpu.PROGRAM_ORIGIN])

	// Memory written after reset is visible to the program.
	emu.Memory.Data[0x10] = 0x55
	err = emu.Run()
	assert.NoError(err)
	assert.Equal(uint8(0x55), emu.A)
}

func TestEmulator_Runtime(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDA #1",
		".byte $02",
	}
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	err = emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.True(errors.Is(err, cpu.ErrUnimplemented(0)))

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
		assert.Equal(uint16(0x8002), runtime.Pc)
		assert.Equal(cpu.ErrUnimplemented(0x02), runtime.Err)
	}

	// Halted after the error.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_TickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.TickLimit = 2

	err := emu.Assemble(strings.NewReader("NOP\nNOP\nNOP\nBRK"))
	assert.NoError(err)

	err = emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.True(errors.Is(err, ErrTickLimit))
	assert.Equal(2, emu.Ticks)
	assert.False(emu.Halted)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
	}

	// Unlimited.
	emu.TickLimit = 0
	err = emu.Run()
	assert.NoError(err)
	assert.True(emu.Halted)
	assert.Equal(4, emu.Ticks)
}

func TestEmulator_Assemble(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.Assemble(strings.NewReader("NOP\nFOO"))
	var syntaxErr *cpu.ErrSyntax
	if assert.True(errors.As(err, &syntaxErr)) {
		assert.Equal(2, syntaxErr.LineNo)
	}
	assert.True(errors.Is(err, cpu.ErrInstructionInvalid))

	// Opcodes registered on the emulator's table are assembled.
	err = emu.Table().Register(cpu.Opcode{Code: 0xca, Name: "DEX", Mode: cpu.MODE_NONE,
		Handler: func(c *cpu.Cpu, op *cpu.Opcode) error {
			c.X--
			c.Status.SetZeroNegative(c.X)
			return nil
		}})
	assert.NoError(err)

	err = emu.Assemble(strings.NewReader("DEX\nBRK"))
	assert.NoError(err)
	err = emu.Reset()
	assert.NoError(err)
	err = emu.Run()
	assert.NoError(err)
	assert.Equal(uint8(0xff), emu.X)
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{LineNo: 3, Pc: 0x8002, Err: cpu.ErrHalted}
	assert.Contains(err.Error(), "line 3")
	assert.Contains(err.Error(), "0x8002")
	assert.Equal(cpu.ErrHalted, errors.Unwrap(err))

	err = &ErrRuntime{Pc: 0x8002, Err: cpu.ErrHalted}
	assert.NotContains(err.Error(), "line")
}
