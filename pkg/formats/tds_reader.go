package formats

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"go.uber.org/multierr"
)

// Reader is a forward-only little-endian cursor over a 3DS byte stream.
// Every read fails with ErrStreamExhausted when the source runs dry.
type Reader struct {
	r   *bufio.Reader
	pos int64
	buf [4]byte
}

// NewReader wraps src in a buffered cursor starting at position 0.
func NewReader(src io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(src)}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, exhausted(err)
	}
	r.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.fill(2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

// ReadInt32 reads a little-endian two's-complement int32.
func (r *Reader) ReadInt32() (int32, error) {
	if err := r.fill(4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(r.buf[:4])), nil
}

// ReadFloat32 reinterprets four little-endian bytes as an IEEE-754 float.
func (r *Reader) ReadFloat32() (float32, error) {
	if err := r.fill(4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(r.buf[:4])), nil
}

// ReadString reads bytes up to (and consuming) a zero terminator.
func (r *Reader) ReadString() (string, error) {
	s, err := r.r.ReadBytes(0)
	r.pos += int64(len(s))
	if err != nil {
		return "", exhausted(err)
	}
	return string(s[:len(s)-1]), nil
}

// Skip discards exactly n bytes, looping over short reads.
func (r *Reader) Skip(n int64) error {
	for n > 0 {
		step := n
		if step > math.MaxInt32 {
			step = math.MaxInt32
		}
		k, err := r.r.Discard(int(step))
		r.pos += int64(k)
		n -= int64(k)
		if err != nil && n > 0 {
			return exhausted(err)
		}
	}
	return nil
}

func (r *Reader) fill(n int) error {
	k, err := io.ReadFull(r.r, r.buf[:n])
	r.pos += int64(k)
	if err != nil {
		return exhausted(err)
	}
	return nil
}

// exhausted maps end-of-input to ErrStreamExhausted. Other I/O errors are
// combined with it so callers can match either.
func exhausted(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrStreamExhausted
	}
	return multierr.Combine(ErrStreamExhausted, err)
}
