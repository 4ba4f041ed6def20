package cpu

// Opcode bytes with dedicated meaning to the engine.
const (
	OP_BRK = uint8(0x00) // Terminates execution.
)

// instructions is the instruction set installed by NewCpu.
var instructions = []Opcode{
	{OP_BRK, "BRK", MODE_NONE, 0, (*Cpu).opBRK},

	{0xA9, "LDA", MODE_IMMEDIATE, 1, (*Cpu).opLDA},
	{0xA5, "LDA", MODE_ZERO_PAGE, 1, (*Cpu).opLDA},
	{0xB5, "LDA", MODE_ZERO_PAGE_X, 1, (*Cpu).opLDA},
	{0xAD, "LDA", MODE_ABSOLUTE, 2, (*Cpu).opLDA},
	{0xBD, "LDA", MODE_ABSOLUTE_X, 2, (*Cpu).opLDA},
	{0xB9, "LDA", MODE_ABSOLUTE_Y, 2, (*Cpu).opLDA},
	{0xA1, "LDA", MODE_INDIRECT_X, 1, (*Cpu).opLDA},
	{0xB1, "LDA", MODE_INDIRECT_Y, 1, (*Cpu).opLDA},

	{0xA2, "LDX", MODE_IMMEDIATE, 1, (*Cpu).opLDX},
	{0xA6, "LDX", MODE_ZERO_PAGE, 1, (*Cpu).opLDX},
	{0xB6, "LDX", MODE_ZERO_PAGE_Y, 1, (*Cpu).opLDX},
	{0xAE, "LDX", MODE_ABSOLUTE, 2, (*Cpu).opLDX},
	{0xBE, "LDX", MODE_ABSOLUTE_Y, 2, (*Cpu).opLDX},

	{0xA0, "LDY", MODE_IMMEDIATE, 1, (*Cpu).opLDY},
	{0xA4, "LDY", MODE_ZERO_PAGE, 1, (*Cpu).opLDY},
	{0xB4, "LDY", MODE_ZERO_PAGE_X, 1, (*Cpu).opLDY},
	{0xAC, "LDY", MODE_ABSOLUTE, 2, (*Cpu).opLDY},
	{0xBC, "LDY", MODE_ABSOLUTE_X, 2, (*Cpu).opLDY},

	{0x85, "STA", MODE_ZERO_PAGE, 1, (*Cpu).opSTA},
	{0x95, "STA", MODE_ZERO_PAGE_X, 1, (*Cpu).opSTA},
	{0x8D, "STA", MODE_ABSOLUTE, 2, (*Cpu).opSTA},
	{0x9D, "STA", MODE_ABSOLUTE_X, 2, (*Cpu).opSTA},
	{0x99, "STA", MODE_ABSOLUTE_Y, 2, (*Cpu).opSTA},
	{0x81, "STA", MODE_INDIRECT_X, 1, (*Cpu).opSTA},
	{0x91, "STA", MODE_INDIRECT_Y, 1, (*Cpu).opSTA},

	{0xAA, "TAX", MODE_NONE, 0, (*Cpu).opTAX},
	{0xA8, "TAY", MODE_NONE, 0, (*Cpu).opTAY},
	{0xE8, "INX", MODE_NONE, 0, (*Cpu).opINX},
	{0xC8, "INY", MODE_NONE, 0, (*Cpu).opINY},
	{0xEA, "NOP", MODE_NONE, 0, (*Cpu).opNOP},
}

// operand reads the byte addressed by the operand.
func (cpu *Cpu) operand(mode Mode) (value uint8, err error) {
	addr, err := cpu.Resolve(mode)
	if err != nil {
		return
	}

	return cpu.Memory.Read(addr)
}

func (cpu *Cpu) opBRK(op *Opcode) (err error) {
	cpu.Halted = true
	return
}

func (cpu *Cpu) opLDA(op *Opcode) (err error) {
	value, err := cpu.operand(op.Mode)
	if err != nil {
		return
	}

	cpu.A = value
	cpu.Status.SetZeroNegative(cpu.A)
	return
}

func (cpu *Cpu) opLDX(op *Opcode) (err error) {
	value, err := cpu.operand(op.Mode)
	if err != nil {
		return
	}

	cpu.X = value
	cpu.Status.SetZeroNegative(cpu.X)
	return
}

func (cpu *Cpu) opLDY(op *Opcode) (err error) {
	value, err := cpu.operand(op.Mode)
	if err != nil {
		return
	}

	cpu.Y = value
	cpu.Status.SetZeroNegative(cpu.Y)
	return
}

// opSTA stores A; flags are unaffected.
func (cpu *Cpu) opSTA(op *Opcode) (err error) {
	addr, err := cpu.Resolve(op.Mode)
	if err != nil {
		return
	}

	return cpu.Memory.Write(addr, cpu.A)
}

func (cpu *Cpu) opTAX(op *Opcode) (err error) {
	cpu.X = cpu.A
	cpu.Status.SetZeroNegative(cpu.X)
	return
}

func (cpu *Cpu) opTAY(op *Opcode) (err error) {
	cpu.Y = cpu.A
	cpu.Status.SetZeroNegative(cpu.Y)
	return
}

func (cpu *Cpu) opINX(op *Opcode) (err error) {
	cpu.X++
	cpu.Status.SetZeroNegative(cpu.X)
	return
}

func (cpu *Cpu) opINY(op *Opcode) (err error) {
	cpu.Y++
	cpu.Status.SetZeroNegative(cpu.Y)
	return
}

func (cpu *Cpu) opNOP(op *Opcode) (err error) {
	return
}
