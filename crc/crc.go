// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc implements the CCITT 16 bit checksum used to tag
// per-map override files.
package crc

const (
	ccittPoly = 0x1021
	initial   = 0xffff
)

var table = func() [256]uint16 {
	var t [256]uint16
	for i := uint16(0); i < 256; i++ {
		c := i << 8
		for j := 0; j < 8; j++ {
			if c&0x8000 != 0 {
				c = (c << 1) ^ ccittPoly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// CRC is a running checksum. The zero value is not ready for use, call New.
type CRC uint16

func New() CRC {
	return initial
}

func (c CRC) Update(p []byte) CRC {
	v := uint16(c)
	for _, b := range p {
		v = table[byte(v>>8)^b] ^ (v << 8)
	}
	return CRC(v)
}

func (c CRC) Sum() uint16 {
	return uint16(c)
}

// Block returns the checksum of p.
func Block(p []byte) uint16 {
	return New().Update(p).Sum()
}
