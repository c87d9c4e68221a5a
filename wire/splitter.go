package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/goSentinel/digest"
)

var (
	// ErrShortBuffer is returned when the buffer holds fewer bytes than the schema needs.
	ErrShortBuffer = errors.New("buffer shorter than schema")
	// ErrInvalidWidth is returned for a non-positive field width.
	ErrInvalidWidth = errors.New("invalid field width")
)

// Splitter splits a buffer according to a fixed-width schema.
type Splitter struct {
	widths []int
	total  int
}

// KeySplitter splits a single default-representation key.
var KeySplitter = MustSplitter(digest.Size)

// NewSplitter builds a Splitter from field widths.
func NewSplitter(widths ...int) (*Splitter, error) {
	if len(widths) == 0 {
		return nil, fmt.Errorf("%w: empty schema", ErrInvalidWidth)
	}
	s := &Splitter{widths: make([]int, len(widths))}
	for i, w := range widths {
		if w <= 0 {
			return nil, fmt.Errorf("%w: field %d has width %d", ErrInvalidWidth, i, w)
		}
		s.widths[i] = w
		s.total += w
	}
	return s, nil
}

// MustSplitter is NewSplitter for package-level schemas.
func MustSplitter(widths ...int) *Splitter {
	s, err := NewSplitter(widths...)
	if err != nil {
		panic(err)
	}
	return s
}

// Width returns the number of bytes the schema consumes.
func (s *Splitter) Width() int {
	return s.total
}

// Split returns one slice per field plus the unconsumed remainder. Returned
// fields are copies; the remainder aliases buf.
func (s *Splitter) Split(buf []byte) ([][]byte, []byte, error) {
	if len(buf) < s.total {
		return nil, nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(buf), s.total)
	}

	reader := bytes.NewReader(buf)
	fields := make([][]byte, len(s.widths))
	for i, w := range s.widths {
		field := make([]byte, w)
		if _, err := io.ReadFull(reader, field); err != nil {
			return nil, nil, err
		}
		fields[i] = field
	}

	return fields, buf[s.total:], nil
}

// SplitKey reads a leading default-representation key off buf.
func SplitKey(buf []byte) (digest.Digest, []byte, error) {
	fields, rest, err := KeySplitter.Split(buf)
	if err != nil {
		return digest.Digest{}, nil, err
	}
	key, err := digest.FromBytes(fields[0])
	if err != nil {
		return digest.Digest{}, nil, err
	}
	return key, rest, nil
}

// AppendKey appends key to dst, producing the layout SplitKey reads.
func AppendKey(dst []byte, key digest.Digest) []byte {
	return append(dst, key[:]...)
}
