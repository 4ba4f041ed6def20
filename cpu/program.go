package cpu

import (
	"iter"
)

// Link is an absolute label reference waiting to be patched into a Line.
type Link struct {
	Offset int    // Offset of the little-endian word in Line.Bytes.
	Label  string // Label to resolve.
}

// Line is one assembled line of source with its location and generated bytes.
type Line struct {
	LineNo int
	Addr   uint16
	Words  []string
	Bytes  []byte
	Links  []Link
}

// Program is an assembled program image, located at PROGRAM_ORIGIN.
type Program struct {
	Lines []Line
}

// Debug locates the line that generated a byte.
type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(addr) >= int(line.Addr) && int(addr) < int(line.Addr)+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr - line.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the raw program image.
func (prog *Program) Binary() (bin []byte) {
	for _, line := range prog.Lines {
		bin = append(bin, line.Bytes...)
	}

	return
}

// Bytes iterates over each byte of the program and its load address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+uint16(n), value) {
					return
				}
			}
		}
	}
}
