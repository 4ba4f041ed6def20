// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reLabel     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// operandForm is the syntactic shape of an instruction operand.
type operandForm int

const (
	formNone      = operandForm(iota) // LDA
	formImmediate                     // LDA #v
	formDirect                        // LDA v
	formDirectX                       // LDA v,X
	formDirectY                       // LDA v,Y
	formIndirectX                     // LDA (v,X)
	formIndirectY                     // LDA (v),Y
)

// Assembler is a two pass (assemble, then link) assembler for the 6502
// mnemonic syntax. Output is located at PROGRAM_ORIGIN.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Table   *Table // Instruction set to assemble for; the standard set if nil.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// table returns the instruction set in use.
func (asm *Assembler) table() *Table {
	if asm.Table == nil {
		asm.Table = StandardTable()
	}

	return asm.Table
}

// number parses a numeric literal: $hex, %binary, or any Go integer literal.
func (asm *Assembler) number(word string) (value int64, err error) {
	text := word
	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
	}

	switch {
	case strings.HasPrefix(text, "$"):
		value, err = strconv.ParseInt(text[1:], 16, 32)
	case strings.HasPrefix(text, "%"):
		value, err = strconv.ParseInt(text[1:], 2, 32)
	default:
		value, err = strconv.ParseInt(text, 0, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if negative {
		value = -value
	}

	return
}

// valueOf returns the value of an operand word. Words naming a label are
// returned as the label, to be linked once all labels are known.
func (asm *Assembler) valueOf(word string) (value int64, label string, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	value, err = asm.number(word)
	if err == nil {
		return
	}

	if reLabel.MatchString(word) {
		value = 0
		label = word
		err = nil
	}

	return
}

// encode packs a value into size little-endian bytes.
// Negative values are accepted as two's complement.
func encode(value int64, size int) (bytes []byte, err error) {
	limit := int64(1) << (8 * size)
	if value >= limit || value < -(limit/2) {
		err = ErrValueRange
		return
	}

	unsigned := value & (limit - 1)
	for range size {
		bytes = append(bytes, uint8(unsigned&0xff))
		unsigned >>= 8
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var number int64
		number, err = asm.number(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(number)
	}
	err = nil
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expressions replaces each $(...) in a line with its value.
// The expression ends at the parenthesis balancing the opening one.
func (asm *Assembler) expressions(line string) (expanded string, err error) {
	var out strings.Builder

	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}

		end := -1
		depth := 0
		for n := start + 1; n < len(line) && end < 0; n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = n
				}
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value int64
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}

		out.WriteString(line[:start])
		out.WriteString(fmt.Sprintf("%#x", value))
		line = line[end+1:]
	}

	out.WriteString(line)
	expanded = out.String()
	return
}

// parseLine expands a line of text and records its labels and equates.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line, err = asm.expressions(line)
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 || !reLabel.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddr()
		words = words[1:]
	}

	return
}

// currentAddr gets the address of the next assembled byte.
func (asm *Assembler) currentAddr() uint16 {
	if len(asm.Lines) == 0 {
		return PROGRAM_ORIGIN
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + uint16(len(last.Bytes))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Label = make(map[string]uint16, 16)
	asm.Equate = maps.Clone(_cpu_defines)
	asm.Equate["LINENO"] = "0"
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]
		for _, link := range ln.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno = ln.LineNo
				line = strings.Join(ln.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			ln.Bytes[link.Offset] = uint8(addr & 0xff)
			ln.Bytes[link.Offset+1] = uint8(addr >> 8)
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// arguments splits a comma separated argument list.
func arguments(words []string) (args []string, err error) {
	joined := strings.Join(words, "")
	if len(joined) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	args = strings.Split(joined, ",")
	if slices.Contains(args, "") {
		err = ErrOpcodeValueMissing
		return
	}

	return
}

// parseWords assembles the words of a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []byte
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(bytes) == 0 {
			return
		}
		line := Line{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Bytes: bytes, Links: links}
		asm.Lines = append(asm.Lines, line)
	}()

	switch strings.ToLower(words[0]) {
	case ".byte":
		var args []string
		args, err = arguments(words[1:])
		if err != nil {
			return
		}
		for _, arg := range args {
			var value int64
			var label string
			value, label, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				err = ErrValueRange
				return
			}
			var data []byte
			data, err = encode(value, 1)
			if err != nil {
				return
			}
			bytes = append(bytes, data...)
		}
	case ".word":
		var args []string
		args, err = arguments(words[1:])
		if err != nil {
			return
		}
		for _, arg := range args {
			var value int64
			var label string
			value, label, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, Link{Offset: len(bytes), Label: label})
			}
			var data []byte
			data, err = encode(value, 2)
			if err != nil {
				return
			}
			bytes = append(bytes, data...)
		}
	default:
		bytes, links, err = asm.instruction(words)
	}

	return
}

// splitOperand determines the operand form, and the text of its value.
func splitOperand(text string) (form operandForm, value string) {
	hasSuffix := func(suffix string) bool {
		return len(text) >= len(suffix) && strings.EqualFold(text[len(text)-len(suffix):], suffix)
	}

	switch {
	case len(text) == 0:
		form = formNone
	case strings.HasPrefix(text, "#"):
		form, value = formImmediate, text[1:]
	case strings.HasPrefix(text, "(") && hasSuffix(",X)"):
		form, value = formIndirectX, text[1:len(text)-3]
	case strings.HasPrefix(text, "(") && hasSuffix("),Y"):
		form, value = formIndirectY, text[1:len(text)-3]
	case hasSuffix(",X"):
		form, value = formDirectX, text[:len(text)-2]
	case hasSuffix(",Y"):
		form, value = formDirectY, text[:len(text)-2]
	default:
		form, value = formDirect, text
	}

	return
}

// known returns true if the instruction set has the mnemonic in any mode.
func (asm *Assembler) known(name string) bool {
	for op := range asm.table().All() {
		if strings.EqualFold(op.Name, name) {
			return true
		}
	}

	return false
}

// direct picks the zero page encoding when the value fits and one exists.
// Labels are always absolute, as their value is unknown until linking.
func (asm *Assembler) direct(name string, zp, abs Mode, value int64, label string) Mode {
	if len(label) == 0 && value >= 0 && value <= 0xff {
		_, ok := asm.table().Find(name, zp)
		if ok {
			return zp
		}
	}

	return abs
}

// instruction assembles a mnemonic and its operand.
func (asm *Assembler) instruction(words []string) (bytes []byte, links []Link, err error) {
	name := strings.ToUpper(words[0])
	if !asm.known(name) {
		err = ErrInstructionInvalid
		return
	}

	form, text := splitOperand(strings.Join(words[1:], ""))
	if strings.Contains(text, ",") {
		err = ErrOpcodeExtraArgs
		return
	}

	var value int64
	var label string
	if form != formNone {
		value, label, err = asm.valueOf(text)
		if err != nil {
			return
		}
	}

	var mode Mode
	switch form {
	case formNone:
		mode = MODE_NONE
	case formImmediate:
		mode = MODE_IMMEDIATE
	case formIndirectX:
		mode = MODE_INDIRECT_X
	case formIndirectY:
		mode = MODE_INDIRECT_Y
	case formDirect:
		mode = asm.direct(name, MODE_ZERO_PAGE, MODE_ABSOLUTE, value, label)
	case formDirectX:
		mode = asm.direct(name, MODE_ZERO_PAGE_X, MODE_ABSOLUTE_X, value, label)
	case formDirectY:
		mode = asm.direct(name, MODE_ZERO_PAGE_Y, MODE_ABSOLUTE_Y, value, label)
	}

	op, ok := asm.table().Find(name, mode)
	if !ok {
		err = ErrModeInvalid
		return
	}

	bytes = []byte{op.Code}

	if len(label) != 0 {
		if op.Bytes != 2 {
			err = ErrModeInvalid
			return
		}
		links = append(links, Link{Offset: len(bytes), Label: label})
	}

	if op.Bytes > 0 {
		var data []byte
		data, err = encode(value, int(op.Bytes))
		if err != nil {
			return
		}
		bytes = append(bytes, data...)
	}

	return
}
