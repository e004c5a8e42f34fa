// Package frame encodes checksummed frames on top of byteslice cursors.
//
// Every frame starts with a 7-byte preamble: a little-endian magic, a type
// byte and the total frame length including the trailing CRC-32. The CRC
// covers everything after the magic.
//
//	data:  magic(2) type(1) length(4) flags(1) [count(2) offsets(4*count)] payload crc(4)
//	error: magic(2) type(1) length(4) code(1) dataLen(2) data crc(4)
package frame

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/byteslice"
)

const (
	Magic uint16 = 0xF5A7

	TypeData  byte = 1
	TypeError byte = 2

	FlagHasOffsetTable byte = 0x01

	preambleSize = 7
	crcSize      = 4
	// empty data frame
	minFrameSize = preambleSize + 1 + crcSize
	// MaxFrameSize bounds the length field accepted by ReadFrame.
	MaxFrameSize = 64 << 20
)

var (
	ErrBadMagic       = errors.New("frame: bad magic")
	ErrWrongType      = errors.New("frame: unexpected frame type")
	ErrLengthMismatch = errors.New("frame: length mismatch")
	ErrCRCMismatch    = errors.New("frame: crc mismatch")
	ErrTooLarge       = errors.New("frame: frame too large")
)

// DataFrame carries a payload and an optional table of offsets into it.
type DataFrame struct {
	Flags   byte
	Offsets []uint32
	Payload *byteslice.Slice
}

// ErrorFrame carries an error code and opaque data.
type ErrorFrame struct {
	Code byte
	Data *byteslice.Slice
}

func (f DataFrame) size() int {
	n := preambleSize + 1 + f.Payload.Len() + crcSize
	if f.Flags&FlagHasOffsetTable != 0 {
		n += 2 + 4*len(f.Offsets)
	}
	return n
}

// EncodeData returns f encoded as a new Slice.
func EncodeData(f DataFrame) (*byteslice.Slice, error) {
	if f.Payload == nil {
		f.Payload = byteslice.Empty
	}
	if f.Flags&FlagHasOffsetTable != 0 && len(f.Offsets) > 0xFFFF {
		return nil, fmt.Errorf("frame: %d offsets: %w", len(f.Offsets), ErrTooLarge)
	}
	size := f.size()
	out := byteslice.Allocate(size).Output()
	if err := writePreamble(out, TypeData, size); err != nil {
		return nil, err
	}
	if err := out.WriteByte(f.Flags); err != nil {
		return nil, err
	}
	if f.Flags&FlagHasOffsetTable != 0 {
		if err := out.WriteUint16(uint16(len(f.Offsets))); err != nil {
			return nil, err
		}
		for _, off := range f.Offsets {
			if err := out.WriteUint32(off); err != nil {
				return nil, err
			}
		}
	}
	if err := out.WriteSlice(f.Payload); err != nil {
		return nil, err
	}
	return seal(out)
}

// DecodeData parses a data frame. The returned payload aliases frame.
func DecodeData(frame *byteslice.Slice) (DataFrame, error) {
	in, err := open(frame, TypeData)
	if err != nil {
		return DataFrame{}, err
	}
	var f DataFrame
	if f.Flags, err = in.ReadByte(); err != nil {
		return DataFrame{}, err
	}
	if f.Flags&FlagHasOffsetTable != 0 {
		count, err := in.ReadUint16()
		if err != nil {
			return DataFrame{}, err
		}
		f.Offsets = make([]uint32, count)
		for i := range f.Offsets {
			if f.Offsets[i], err = in.ReadUint32(); err != nil {
				return DataFrame{}, err
			}
		}
	}
	if f.Payload, err = in.ReadSlice(int(in.Available()) - crcSize); err != nil {
		return DataFrame{}, err
	}
	return f, nil
}

// EncodeError returns f encoded as a new Slice.
func EncodeError(f ErrorFrame) (*byteslice.Slice, error) {
	if f.Data == nil {
		f.Data = byteslice.Empty
	}
	if f.Data.Len() > 0xFFFF {
		return nil, fmt.Errorf("frame: error data of %d bytes: %w", f.Data.Len(), ErrTooLarge)
	}
	size := preambleSize + 1 + 2 + f.Data.Len() + crcSize
	out := byteslice.Allocate(size).Output()
	if err := writePreamble(out, TypeError, size); err != nil {
		return nil, err
	}
	if err := out.WriteByte(f.Code); err != nil {
		return nil, err
	}
	if err := out.WriteUint16(uint16(f.Data.Len())); err != nil {
		return nil, err
	}
	if err := out.WriteSlice(f.Data); err != nil {
		return nil, err
	}
	return seal(out)
}

// DecodeError parses an error frame. The returned data aliases frame.
func DecodeError(frame *byteslice.Slice) (ErrorFrame, error) {
	in, err := open(frame, TypeError)
	if err != nil {
		return ErrorFrame{}, err
	}
	var f ErrorFrame
	if f.Code, err = in.ReadByte(); err != nil {
		return ErrorFrame{}, err
	}
	n, err := in.ReadUint16()
	if err != nil {
		return ErrorFrame{}, err
	}
	if int64(n) != in.Available()-crcSize {
		return ErrorFrame{}, ErrLengthMismatch
	}
	if f.Data, err = in.ReadSlice(int(n)); err != nil {
		return ErrorFrame{}, err
	}
	return f, nil
}

// Type returns the type byte of an encoded frame.
func Type(frame *byteslice.Slice) (byte, error) {
	if frame.Len() < preambleSize {
		return 0, ErrLengthMismatch
	}
	if frame.Uint16At(0) != Magic {
		return 0, ErrBadMagic
	}
	return frame.ByteAt(2), nil
}

// ReadFrame reads one whole frame from in. The returned Slice is suitable
// for DecodeData or DecodeError.
func ReadFrame(in byteslice.Input) (*byteslice.Slice, error) {
	head := byteslice.Allocate(preambleSize)
	if err := in.ReadToSlice(head, 0, preambleSize); err != nil {
		return nil, err
	}
	if head.Uint16At(0) != Magic {
		return nil, ErrBadMagic
	}
	length := head.Uint32At(3)
	if length < minFrameSize {
		return nil, ErrLengthMismatch
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame: length %d: %w", length, ErrTooLarge)
	}
	frame := byteslice.Allocate(int(length))
	frame.SetSliceAt(0, head, 0, preambleSize)
	if err := in.ReadToSlice(frame, preambleSize, int(length)-preambleSize); err != nil {
		return nil, err
	}
	return frame, nil
}

func writePreamble(out byteslice.Output, typ byte, size int) error {
	if err := out.WriteUint16(Magic); err != nil {
		return err
	}
	if err := out.WriteByte(typ); err != nil {
		return err
	}
	return out.WriteUint32(uint32(size))
}

// seal appends the CRC of everything written after the magic.
func seal(out *byteslice.BasicOutput) (*byteslice.Slice, error) {
	written := out.Slice()
	crc := crc32.ChecksumIEEE(written.Bytes()[2:])
	if err := out.WriteUint32(crc); err != nil {
		return nil, err
	}
	return out.Slice(), nil
}

// open validates the preamble and CRC of frame and returns a reader
// positioned after the preamble.
func open(frame *byteslice.Slice, want byte) (*byteslice.BasicInput, error) {
	typ, err := Type(frame)
	if err != nil {
		return nil, err
	}
	if typ != want {
		return nil, fmt.Errorf("got type %d, want %d: %w", typ, want, ErrWrongType)
	}
	if frame.Len() < minFrameSize || int(frame.Uint32At(3)) != frame.Len() {
		return nil, ErrLengthMismatch
	}
	end := frame.Len() - crcSize
	if crc32.ChecksumIEEE(frame.Bytes()[2:end]) != frame.Uint32At(end) {
		return nil, ErrCRCMismatch
	}
	in := frame.Input()
	if err := in.SetPosition(preambleSize); err != nil {
		return nil, err
	}
	return in, nil
}
