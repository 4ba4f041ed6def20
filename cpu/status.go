package cpu

// Status is the processor status register.
//
// Only Zero and Negative are maintained by the current instruction set; the
// remaining bit positions are reserved for the flags of the full processor
// and are never disturbed by Zero/Negative updates.
type Status uint8

const (
	STATUS_C = Status(1 << 0) // Carry
	STATUS_Z = Status(1 << 1) // Zero
	STATUS_I = Status(1 << 2) // Interrupt disable
	STATUS_D = Status(1 << 3) // Decimal mode
	STATUS_B = Status(1 << 4) // Break
	STATUS_U = Status(1 << 5) // Unused
	STATUS_V = Status(1 << 6) // Overflow
	STATUS_N = Status(1 << 7) // Negative
)

const statusNames = "CZIDBUVN"

// Has returns true if every bit of flag is set.
func (st Status) Has(flag Status) bool {
	return st&flag == flag
}

// Set sets or clears flag.
func (st *Status) Set(flag Status, on bool) {
	if on {
		*st |= flag
	} else {
		*st &^= flag
	}
}

// SetZeroNegative recomputes Zero and Negative from a just-produced result.
func (st *Status) SetZeroNegative(value uint8) {
	st.Set(STATUS_Z, value == 0)
	st.Set(STATUS_N, value&0x80 != 0)
}

// String renders the flags most significant first, '.' for a clear bit.
func (st Status) String() string {
	text := []byte("........")
	for n := range 8 {
		if st&(1<<n) != 0 {
			text[7-n] = statusNames[n]
		}
	}

	return string(text)
}
