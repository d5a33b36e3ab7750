// Package snapshot defines the serialized machine state.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/go-faster/jx"
)

const Version = 1

type NES struct {
	Version int
	CPU     CPU
	RAM     [0x800]uint8
	PPU     PPU
}

type CPU struct {
	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Clocks int64
}

type PPU struct {
	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMAddr   uint8
	OAMMem    [0x100]uint8

	Scroll     [2]uint8
	Addr       uint16
	WriteLatch bool
	ReadBuf    uint8 // internal PPUDATA read buffer
	DataLatch  uint8 // value returned by the next PPUDATA read
	VRAM       [0x4000]uint8
}

func (s *NES) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *NES) UnmarshalJSON(buf []byte) error {
	return s.Decode(jx.DecodeBytes(buf))
}

func (s *NES) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("cpu")
	s.CPU.Encode(e)
	e.FieldStart("ram")
	e.Base64(s.RAM[:])
	e.FieldStart("ppu")
	s.PPU.Encode(e)
	e.ObjEnd()
}

// Decode decodes a snapshot. The version key is mandatory.
func (s *NES) Decode(d *jx.Decoder) error {
	hasVersion := false
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return err
			}
			if v != Version {
				return fmt.Errorf("unsupported snapshot version %d", v)
			}
			s.Version = v
			hasVersion = true
		case "cpu":
			return s.CPU.Decode(d)
		case "ram":
			return decodeBytes(d, s.RAM[:])
		case "ppu":
			return s.PPU.Decode(d)
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !hasVersion {
		return errors.New("missing snapshot version")
	}
	return nil
}

func (c *CPU) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("pc")
	e.UInt16(c.PC)
	e.FieldStart("sp")
	e.UInt8(c.SP)
	e.FieldStart("p")
	e.UInt8(c.P)
	e.FieldStart("a")
	e.UInt8(c.A)
	e.FieldStart("x")
	e.UInt8(c.X)
	e.FieldStart("y")
	e.UInt8(c.Y)
	e.FieldStart("clocks")
	e.Int64(c.Clocks)
	e.ObjEnd()
}

func (c *CPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			c.PC, err = d.UInt16()
		case "sp":
			c.SP, err = d.UInt8()
		case "p":
			c.P, err = d.UInt8()
		case "a":
			c.A, err = d.UInt8()
		case "x":
			c.X, err = d.UInt8()
		case "y":
			c.Y, err = d.UInt8()
		case "clocks":
			c.Clocks, err = d.Int64()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (p *PPU) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("ctrl")
	e.UInt8(p.PPUCTRL)
	e.FieldStart("mask")
	e.UInt8(p.PPUMASK)
	e.FieldStart("status")
	e.UInt8(p.PPUSTATUS)
	e.FieldStart("oamaddr")
	e.UInt8(p.OAMAddr)
	e.FieldStart("oam")
	e.Base64(p.OAMMem[:])
	e.FieldStart("scroll")
	e.ArrStart()
	e.UInt8(p.Scroll[0])
	e.UInt8(p.Scroll[1])
	e.ArrEnd()
	e.FieldStart("addr")
	e.UInt16(p.Addr)
	e.FieldStart("wlatch")
	e.Bool(p.WriteLatch)
	e.FieldStart("readbuf")
	e.UInt8(p.ReadBuf)
	e.FieldStart("data")
	e.UInt8(p.DataLatch)
	e.FieldStart("vram")
	e.Base64(p.VRAM[:])
	e.ObjEnd()
}

func (p *PPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "ctrl":
			p.PPUCTRL, err = d.UInt8()
		case "mask":
			p.PPUMASK, err = d.UInt8()
		case "status":
			p.PPUSTATUS, err = d.UInt8()
		case "oamaddr":
			p.OAMAddr, err = d.UInt8()
		case "oam":
			err = decodeBytes(d, p.OAMMem[:])
		case "scroll":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(p.Scroll) {
					return fmt.Errorf("scroll: too many values")
				}
				v, err := d.UInt8()
				p.Scroll[i] = v
				i++
				return err
			})
		case "addr":
			p.Addr, err = d.UInt16()
		case "wlatch":
			p.WriteLatch, err = d.Bool()
		case "readbuf":
			p.ReadBuf, err = d.UInt8()
		case "data":
			p.DataLatch, err = d.UInt8()
		case "vram":
			err = decodeBytes(d, p.VRAM[:])
		default:
			err = d.Skip()
		}
		return err
	})
}

// decodeBytes decodes a base64 string of exactly len(dst) bytes into dst.
func decodeBytes(d *jx.Decoder, dst []byte) error {
	buf, err := d.Base64()
	if err != nil {
		return err
	}
	if len(buf) != len(dst) {
		return fmt.Errorf("got %d bytes, want %d", len(buf), len(dst))
	}
	copy(dst, buf)
	return nil
}
