// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package embedding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNPY is returned for files that are not 2-D float .npy arrays.
var ErrInvalidNPY = errors.New("invalid npy file")

var npyMagic = []byte("\x93NUMPY")

// Header alignment used by numpy since 1.14 (older files use 16, which is
// also accepted on read).
const npyAlign = 64

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadNPY decodes a 2-D little- or big-endian float32/float64 array.
// float64 input is narrowed to float32.
func ReadNPY(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)

	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(br, prefix); err != nil {
		return nil, fmt.Errorf("%w: short preamble: %v", ErrInvalidNPY, err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidNPY)
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: header length: %v", ErrInvalidNPY, err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: header length: %v", ErrInvalidNPY, err)
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidNPY, major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrInvalidNPY, err)
	}
	descr, rows, dim, err := parseHeader(string(header))
	if err != nil {
		return nil, err
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch descr[0] {
	case '<', '|', '=':
	case '>':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: unsupported descr %q", ErrInvalidNPY, descr)
	}

	n := rows * dim
	data := make([]float32, n)
	switch descr[1:] {
	case "f4":
		raw := make([]byte, 4*n)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: truncated data: %v", ErrInvalidNPY, err)
		}
		for i := range data {
			data[i] = math.Float32frombits(order.Uint32(raw[4*i:]))
		}
	case "f8":
		raw := make([]byte, 8*n)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: truncated data: %v", ErrInvalidNPY, err)
		}
		for i := range data {
			data[i] = float32(math.Float64frombits(order.Uint64(raw[8*i:])))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidNPY, descr)
	}

	return NewMatrix(rows, dim, data)
}

// parseHeader extracts dtype and a 2-D shape from the header dict literal.
func parseHeader(h string) (descr string, rows, dim int, err error) {
	m := descrRe.FindStringSubmatch(h)
	if m == nil || len(m[1]) < 3 {
		return "", 0, 0, fmt.Errorf("%w: missing descr", ErrInvalidNPY)
	}
	descr = m[1]

	if f := fortranRe.FindStringSubmatch(h); f == nil {
		return "", 0, 0, fmt.Errorf("%w: missing fortran_order", ErrInvalidNPY)
	} else if f[1] == "True" {
		return "", 0, 0, fmt.Errorf("%w: fortran order not supported", ErrInvalidNPY)
	}

	s := shapeRe.FindStringSubmatch(h)
	if s == nil {
		return "", 0, 0, fmt.Errorf("%w: missing shape", ErrInvalidNPY)
	}
	var dims []int
	for _, part := range strings.Split(s[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, convErr := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if convErr != nil || v < 0 {
			return "", 0, 0, fmt.Errorf("%w: bad shape %q", ErrInvalidNPY, s[1])
		}
		dims = append(dims, v)
	}
	if len(dims) != 2 {
		return "", 0, 0, fmt.Errorf("%w: expected 2-D array, got shape (%s)", ErrInvalidNPY, s[1])
	}
	return descr, dims[0], dims[1], nil
}

// WriteNPY encodes m as a version 1.0 '<f4' array.
func WriteNPY(w io.Writer, m *Matrix) error {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", m.rows, m.dim)
	// magic + version + uint16 length + header + '\n' padded to npyAlign.
	pre := len(npyMagic) + 2 + 2
	total := pre + len(header) + 1
	if rem := total % npyAlign; rem != 0 {
		header += strings.Repeat(" ", npyAlign-rem)
	}
	header += "\n"
	if len(header) > math.MaxUint16 {
		return fmt.Errorf("npy header too long: %d bytes", len(header))
	}

	var preamble bytes.Buffer
	preamble.Write(npyMagic)
	preamble.Write([]byte{1, 0})
	_ = binary.Write(&preamble, binary.LittleEndian, uint16(len(header)))
	preamble.WriteString(header)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(preamble.Bytes()); err != nil {
		return fmt.Errorf("failed to write npy header: %w", err)
	}

	var buf [4]byte
	for _, v := range m.data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("failed to write npy data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush npy data: %w", err)
	}
	return nil
}

// LoadFile reads a .npy matrix from path.
func LoadFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings: %w", err)
	}
	defer f.Close()

	m, err := ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
