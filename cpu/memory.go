package cpu

const (
	MEMORY_SIZE = 0xffff // Bytes of addressable memory, 0x0000 through 0xfffe.
)

// Memory is the flat byte addressable store.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

// Reset clears all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

// Read reads a byte.
func (mem *Memory) Read(addr uint16) (value uint8, err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrAddressRange(addr)
		return
	}

	value = mem.Data[addr]
	return
}

// Write writes a byte.
func (mem *Memory) Write(addr uint16, value uint8) (err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrAddressRange(addr)
		return
	}

	mem.Data[addr] = value
	return
}

// Read16 reads a little-endian word from addr and addr+1.
func (mem *Memory) Read16(addr uint16) (value uint16, err error) {
	lo, err := mem.Read(addr)
	if err != nil {
		return
	}
	hi, err := mem.Read(addr + 1)
	if err != nil {
		return
	}

	value = (uint16(hi) << 8) | uint16(lo)
	return
}

// Write16 writes a little-endian word to addr and addr+1.
// Nothing is written unless both bytes are in range.
func (mem *Memory) Write16(addr uint16, value uint16) (err error) {
	for _, pos := range []uint16{addr, addr + 1} {
		if int(pos) >= MEMORY_SIZE {
			err = ErrAddressRange(pos)
			return
		}
	}

	mem.Data[addr] = uint8(value & 0xff)
	mem.Data[addr+1] = uint8(value >> 8)
	return
}

// Load copies a program image into memory starting at origin.
func (mem *Memory) Load(origin uint16, program []byte) (err error) {
	if len(program) > MEMORY_SIZE-int(origin) {
		err = ErrProgramSize{Origin: origin, Size: len(program)}
		return
	}

	copy(mem.Data[origin:], program)
	return
}
