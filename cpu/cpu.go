package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

// Fixed locations of the memory map.
const (
	PROGRAM_ORIGIN = uint16(0x8000) // Load address of program images.
	RESET_VECTOR   = uint16(0xfffc) // Word holding the initial program counter.
)

var _cpu_defines = map[string]string{
	"PROGRAM_ORIGIN": fmt.Sprintf("%#x", PROGRAM_ORIGIN),
	"RESET_VECTOR":   fmt.Sprintf("%#x", RESET_VECTOR),
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers        // Register file.
	Memory    Memory // Address space.

	Halted bool // Set once BRK executes, or a fatal error occurs.
	Ticks  int  // Instructions executed since reset.

	table *Table
}

// StandardTable returns a new table holding the standard instruction set.
func StandardTable() *Table {
	table, err := NewTable(instructions...)
	if err != nil {
		panic(err)
	}

	return table
}

// NewCpu creates a new CPU with the standard instruction set.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		table: StandardTable(),
	}

	return
}

// Table returns the opcode table, for registering additional opcodes.
// A zero value Cpu gets the standard instruction set on first use.
func (cpu *Cpu) Table() *Table {
	if cpu.table == nil {
		cpu.table = StandardTable()
	}

	return cpu.table
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "y", "status", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "x":
			strval = fmt.Sprintf("%02X", cpu.X)
		case "y":
			strval = fmt.Sprintf("%02X", cpu.Y)
		case "status":
			strval = fmt.Sprintf("%02X %v", uint8(cpu.Status), cpu.Status)
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Load copies a program image to PROGRAM_ORIGIN and points the reset
// vector at it. Registers are not modified.
// Images reaching the reset vector are rejected.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > int(RESET_VECTOR-PROGRAM_ORIGIN) {
		err = ErrProgramSize{Origin: PROGRAM_ORIGIN, Size: len(program)}
		return
	}

	err = cpu.Memory.Load(PROGRAM_ORIGIN, program)
	if err != nil {
		return
	}

	err = cpu.Memory.Write16(RESET_VECTOR, PROGRAM_ORIGIN)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at 0x%04x", len(program), PROGRAM_ORIGIN)
	}

	return
}

// Reset the CPU state.
// - Clears A, X and the status register.
// - Sets the program counter from the reset vector.
// - Zeros the tick counter and leaves the halted state.
func (cpu *Cpu) Reset() (err error) {
	pc, err := cpu.Memory.Read16(RESET_VECTOR)
	if err != nil {
		return
	}

	cpu.Registers.Reset(pc)
	cpu.Halted = false
	cpu.Ticks = 0

	if cpu.Verbose {
		log.Printf("cpu: reset, pc 0x%04x", pc)
	}

	return
}

// Run executes instructions until the CPU halts.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// LoadAndRun loads a program image, resets, and runs it to completion.
func (cpu *Cpu) LoadAndRun(program []byte) (err error) {
	err = cpu.Load(program)
	if err != nil {
		return
	}

	err = cpu.Reset()
	if err != nil {
		return
	}

	return cpu.Run()
}

// Tick executes a single instruction cycle.
// Any error halts the CPU.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	defer func() {
		if err != nil {
			cpu.Halted = true
		}
	}()

	pc := cpu.Pc
	code, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}
	cpu.Pc++

	op, ok := cpu.Table().Lookup(code)
	if !ok {
		err = ErrUnimplemented(code)
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", pc, cpu.disassemble(op))
	}

	err = op.Handler(cpu, op)
	if err != nil {
		return
	}

	cpu.Pc += uint16(op.Bytes)
	cpu.Ticks++

	return
}

// disassemble formats op with the operand bytes at the program counter.
func (cpu *Cpu) disassemble(op *Opcode) string {
	var operand uint16
	switch op.Bytes {
	case 1:
		lo, _ := cpu.Memory.Read(cpu.Pc)
		operand = uint16(lo)
	case 2:
		operand, _ = cpu.Memory.Read16(cpu.Pc)
	}

	return op.Format(operand)
}

// Resolve computes the operand address for a mode. The program counter
// must address the first operand byte. Resolve has no side effects.
func (cpu *Cpu) Resolve(mode Mode) (addr uint16, err error) {
	mem := &cpu.Memory
	pc := cpu.Pc

	switch mode {
	case MODE_IMMEDIATE:
		addr = pc
	case MODE_ZERO_PAGE:
		addr, err = cpu.zeroPage(0)
	case MODE_ZERO_PAGE_X:
		addr, err = cpu.zeroPage(cpu.X)
	case MODE_ZERO_PAGE_Y:
		addr, err = cpu.zeroPage(cpu.Y)
	case MODE_ABSOLUTE:
		addr, err = mem.Read16(pc)
	case MODE_ABSOLUTE_X:
		addr, err = mem.Read16(pc)
		addr += uint16(cpu.X)
	case MODE_ABSOLUTE_Y:
		addr, err = mem.Read16(pc)
		addr += uint16(cpu.Y)
	case MODE_INDIRECT_X:
		addr, err = cpu.indirect(cpu.X)
	case MODE_INDIRECT_Y:
		// The pointer, not the target, is indexed by Y.
		addr, err = cpu.indirect(cpu.Y)
	default:
		err = ErrAddressingMode(mode)
	}

	if err != nil {
		addr = 0
	}

	return
}

// zeroPage returns the operand byte plus index, wrapped to the zero page.
func (cpu *Cpu) zeroPage(index uint8) (addr uint16, err error) {
	base, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	addr = uint16(base + index)
	return
}

// indirect dereferences the zero page pointer at operand plus index.
// The pointer high byte wraps within the zero page.
func (cpu *Cpu) indirect(index uint8) (addr uint16, err error) {
	base, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	ptr := base + index
	lo, err := cpu.Memory.Read(uint16(ptr))
	if err != nil {
		return
	}
	hi, err := cpu.Memory.Read(uint16(ptr + 1))
	if err != nil {
		return
	}

	addr = (uint16(hi) << 8) | uint16(lo)
	return
}
