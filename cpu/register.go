package cpu

// Registers is the register file of the processor.
type Registers struct {
	A      uint8  // Accumulator.
	X      uint8  // Index register X.
	Y      uint8  // Index register Y.
	Status Status // Condition flags.
	Pc     uint16 // Program counter.
}

// Reset clears A, X and Status, and sets the program counter.
// Y is left untouched.
func (reg *Registers) Reset(pc uint16) {
	reg.A = 0
	reg.X = 0
	reg.Status = 0
	reg.Pc = pc
}
