package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/memhier/mem/cache/writeback"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm"
)

// opKind is the kind of a trace line.
type opKind int

const (
	opFetch opKind = iota
	opRead
	opWrite
	opContextSwitch
)

func (k opKind) String() string {
	return [...]string{"I", "R", "W", "C"}[k]
}

// op is one line of a trace.
type op struct {
	kind opKind
	addr uint64
	data []byte
	line int
}

// parseTrace reads a trace. Each line is one of
//
//	I <vaddr>
//	R <vaddr>
//	W <vaddr> <hex bytes>
//	C
//
// Blank lines and lines starting with # are skipped.
func parseTrace(r io.Reader) ([]op, error) {
	var ops []op

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		o, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		o.line = lineNo
		ops = append(ops, o)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ops, nil
}

func parseOp(fields []string) (op, error) {
	wantFields := map[string]int{"I": 2, "R": 2, "W": 3, "C": 1}

	kind := strings.ToUpper(fields[0])
	n, ok := wantFields[kind]
	if !ok {
		return op{}, fmt.Errorf("unknown operation %q", fields[0])
	}

	if len(fields) != n {
		return op{}, fmt.Errorf("%s takes %d fields, got %d",
			kind, n, len(fields))
	}

	if kind == "C" {
		return op{kind: opContextSwitch}, nil
	}

	addr, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return op{}, fmt.Errorf("bad address %q: %w", fields[1], err)
	}

	if addr >= 1<<mem.VirtualAddressBits {
		return op{}, fmt.Errorf("address 0x%x is wider than %d bits",
			addr, mem.VirtualAddressBits)
	}

	switch kind {
	case "I":
		return op{kind: opFetch, addr: addr}, nil
	case "R":
		return op{kind: opRead, addr: addr}, nil
	}

	data, err := hex.DecodeString(strings.TrimPrefix(fields[2], "0x"))
	if err != nil {
		return op{}, fmt.Errorf("bad data %q: %w", fields[2], err)
	}

	if len(data) == 0 {
		return op{}, fmt.Errorf("empty write")
	}

	offset := addr % writeback.DefaultBlockSize
	if offset+uint64(len(data)) > writeback.DefaultBlockSize {
		return op{}, fmt.Errorf(
			"%d bytes at 0x%x cross a %d-byte block boundary",
			len(data), addr, writeback.DefaultBlockSize)
	}

	return op{kind: opWrite, addr: addr, data: data}, nil
}

// loadPages fills a page table. Each line is
//
//	<vpn> <frame> [shared]
//
// Blank lines and lines starting with # are skipped.
func loadPages(r io.Reader, pt *vm.PageTable) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		page, err := parsePage(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if _, found := pt.Find(page.VPN); found {
			return fmt.Errorf("line %d: page 0x%x is mapped twice",
				lineNo, page.VPN)
		}

		pt.Insert(page)
	}

	return scanner.Err()
}

func parsePage(fields []string) (vm.Page, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return vm.Page{}, fmt.Errorf("want <vpn> <frame> [shared]")
	}

	vpn, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return vm.Page{}, fmt.Errorf("bad vpn %q: %w", fields[0], err)
	}

	if vpn >= 1<<mem.PageNumberBits {
		return vm.Page{}, fmt.Errorf("vpn 0x%x is wider than %d bits",
			vpn, mem.PageNumberBits)
	}

	frame, err := strconv.ParseUint(fields[1], 0, mem.FrameNumberBits)
	if err != nil {
		return vm.Page{}, fmt.Errorf("bad frame %q: %w", fields[1], err)
	}

	page := vm.Page{VPN: vpn, Frame: frame}

	if len(fields) == 3 {
		if fields[2] != "shared" {
			return vm.Page{}, fmt.Errorf("unknown page flag %q", fields[2])
		}

		page.Shared = true
	}

	return page, nil
}
