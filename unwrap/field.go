package unwrap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrFieldSize = errors.New("unwrap: invalid field size")

// Values decoded per read.
const readChunk = 1 << 16

// ReadField reads a little-endian int32 size followed by size*size float64 values.
func ReadField(r io.Reader) (size int, field []float64, err error) {
	var size32 int32
	if err = binary.Read(r, binary.LittleEndian, &size32); err != nil {
		return 0, nil, fmt.Errorf("unwrap: reading size: %w", err)
	}
	if size32 < 0 || int64(size32)*int64(size32) > math.MaxInt32 {
		return 0, nil, fmt.Errorf("%w: %d", ErrFieldSize, size32)
	}
	size = int(size32)
	total := size * size
	chunk := make([]float64, min(total, readChunk))
	field = make([]float64, 0, len(chunk))
	br := bufio.NewReader(r)
	for len(field) < total {
		n := min(total-len(field), len(chunk))
		if err = binary.Read(br, binary.LittleEndian, chunk[:n]); err != nil {
			return 0, nil, fmt.Errorf("unwrap: reading %d values, got %d: %w", total, len(field), err)
		}
		field = append(field, chunk[:n]...)
	}
	return size, field, nil
}

// WriteField writes size and the size*size values of field in the ReadField layout.
func WriteField(w io.Writer, size int, field []float64) error {
	if size < 0 || len(field) != size*size {
		return fmt.Errorf("%w: %d for %d values", ErrFieldSize, size, len(field))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(size)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
		return err
	}
	return bw.Flush()
}

// Gaussian samples scale*exp(-(x^2+y^2)/sigma^2) over [-1, 1]^2 plus uniform noise in [0, noiseSigma).
func Gaussian(size int, gaussSigma, noiseSigma, scale float64, src rand.Source) []float64 {
	axis := make([]float64, size)
	if size > 1 {
		floats.Span(axis, -1, 1)
	}
	noise := distuv.Uniform{Min: 0, Max: 1, Src: src}
	factor := 1 / (gaussSigma * gaussSigma)

	out := make([]float64, size*size)
	for iy := 0; iy < size; iy++ {
		for ix := 0; ix < size; ix++ {
			r2 := axis[ix]*axis[ix] + axis[iy]*axis[iy]
			out[iy*size+ix] = scale*math.Exp(-factor*r2) + noiseSigma*noise.Rand()
		}
	}
	return out
}

// WrapField wraps every value of field in place.
func WrapField(field []float64) []float64 {
	for i, v := range field {
		field[i] = Wrap(v)
	}
	return field
}
