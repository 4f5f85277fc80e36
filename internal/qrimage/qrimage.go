// Package qrimage renders QR payloads as PNG images or terminal text.
package qrimage

import (
	"errors"
	"strings"

	"rsc.io/qr"
)

// DefaultScale is the PNG pixel size of one module.
const DefaultScale = 6

// quietZone is the blank border, in modules, around the terminal rendering.
const quietZone = 2

var ErrEmptyPayload = errors.New("empty qr payload")

// Matrix is an encoded QR symbol.
type Matrix struct {
	code *qr.Code
}

// Encode builds a QR symbol for payload at medium error correction.
func Encode(payload string) (*Matrix, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	code, err := qr.Encode(payload, qr.M)
	if err != nil {
		return nil, err
	}
	return &Matrix{code: code}, nil
}

// Size is the number of modules per side.
func (m *Matrix) Size() int { return m.code.Size }

// Dark reports whether the module at (x, y) is dark. Coordinates outside
// the symbol are light.
func (m *Matrix) Dark(x, y int) bool { return m.code.Black(x, y) }

// PNG returns the symbol as a PNG with scale pixels per module.
func (m *Matrix) PNG(scale int) []byte {
	if scale <= 0 {
		scale = DefaultScale
	}
	c := *m.code
	c.Scale = scale
	return c.PNG()
}

// Terminal renders the symbol with Unicode half blocks, two module rows per
// text line.
func (m *Matrix) Terminal() string {
	var sb strings.Builder
	lo, hi := -quietZone, m.code.Size+quietZone
	for y := lo; y < hi; y += 2 {
		for x := lo; x < hi; x++ {
			top, bottom := m.Dark(x, y), m.Dark(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PNG is a shortcut for Encode followed by Matrix.PNG.
func PNG(payload string, scale int) ([]byte, error) {
	m, err := Encode(payload)
	if err != nil {
		return nil, err
	}
	return m.PNG(scale), nil
}
