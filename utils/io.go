package utils

import (
	"bytes"
	"compress/gzip"
	"io"
	"math"
	"os"
	"strings"
	"unsafe"

	"github.com/dsnet/compress/bzip2"
	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

// Enforces a 64bit machine due to assumptions about size of ints.
func checkCompiler() {
	myInt := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myInt64 := int64(math.MaxInt64)
	if uint64(myInt) != uint64(myInt64) {
		panic("Must be on 64 bit system.")
	}
}

func OpenFile(path string) (file *os.File) {
	file, err := os.Open(path)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to open file: " + path)
	}
	return file
}

func CreateFile(path string) (file *os.File) {
	file, err := os.Create(path)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to create file: " + path)
	}
	return file
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() (err error) {
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if cerr := rc.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenDecompressed opens path, transparently decompressing by extension (.bz2 or .gz).
func OpenDecompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".bz2"):
		bz, err := bzip2.NewReader(file, nil)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &readCloser{Reader: bz, closers: []io.Closer{file, bz}}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &readCloser{Reader: gz, closers: []io.Closer{file, gz}}, nil
	}
	return file, nil
}

// ToIntStr parses an unsigned decimal. ok is false on any non-digit, on an empty string, or past math.MaxUint32.
func ToIntStr(buf string) (n uint32, ok bool) {
	if len(buf) == 0 || len(buf) > 19 {
		return 0, false
	}
	acc := uint64(0)
	for i := 0; i < len(buf); i++ {
		if buf[i] < '0' || buf[i] > '9' {
			return 0, false
		}
		acc = acc*10 + uint64(buf[i]-'0')
		if acc > math.MaxUint32 {
			return 0, false
		}
	}
	return uint32(acc), true
}

// ToInt64Str parses a decimal with an optional leading minus sign.
func ToInt64Str(buf string) (n int64, ok bool) {
	neg := false
	if len(buf) > 0 && buf[0] == '-' {
		neg = true
		buf = buf[1:]
	}
	if len(buf) == 0 || len(buf) > 18 {
		return 0, false
	}
	for i := 0; i < len(buf); i++ {
		if buf[i] < '0' || buf[i] > '9' {
			return 0, false
		}
		n = n*10 + int64(buf[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Hides a pointer from escape analysis.
//
//go:nosplit
func Noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

// var asciiSpace = [256]uint8{'\t': 1, '\n': 1, '\v': 1, '\f': 1, '\r': 1, ' ': 1}
const SPACE_MASK = 1<<9 | 1<<10 | 1<<11 | 1<<12 | 1<<13 | 1<<32

func isByteSpace(b byte) bool {
	return ((SPACE_MASK & (1 << b)) != 0)
}

// ASCII only, no re-allocation. Points to entries in byteBuff.
// Returns the number of fields found; fields beyond len(fieldBuff) are counted but not stored.
func FastFields(fieldBuff []string, byteBuff []byte) (count int) {
	fieldIndex := 0
	i := 0
	// Skip spaces in the front of the input.
	for i < len(byteBuff) && isByteSpace(byteBuff[i]) {
		i++
	}
	fieldStart := i
	for i < len(byteBuff) {
		if !isByteSpace(byteBuff[i]) {
			i++
			continue
		}
		if fieldIndex < len(fieldBuff) {
			b := byteBuff[fieldStart:i]
			fieldBuff[fieldIndex] = *(*string)(Noescape(unsafe.Pointer(&b)))
		}
		fieldIndex++

		i++
		// Skip spaces in between fields.
		for i < len(byteBuff) && isByteSpace(byteBuff[i]) {
			i++
		}
		fieldStart = i
	}
	if fieldStart < len(byteBuff) { // Last field might end at EOF.
		if fieldIndex < len(fieldBuff) {
			b := byteBuff[fieldStart:]
			fieldBuff[fieldIndex] = *(*string)(Noescape(unsafe.Pointer(&b)))
		}
		fieldIndex++
	}
	return fieldIndex
}

type FastFileLines struct {
	Buf   []byte
	Start int // First non-processed byte in buf.
	End   int // End of data in buf.
	eof   bool
}

// Scan returns the next line (without the newline), or nil at the end of input.
// The returned slice is only valid until the next call.
func (s *FastFileLines) Scan(r io.Reader) []byte {
	for { // Until we have a token.
		if s.End > s.Start { // See if we can get a token with what we already have.
			if i := bytes.IndexByte(s.Buf[s.Start:s.End], '\n'); i >= 0 {
				token := s.Buf[s.Start : s.Start+i]
				s.Start += i + 1
				return token
			}
		}
		if s.eof {
			// Return whatever is left.
			if s.End > s.Start {
				i := s.Start
				s.Start = s.End
				return s.Buf[i:s.End]
			}
			return nil
		}
		// Must read more data. Shift data to beginning of buffer.
		if s.Start > 0 {
			copy(s.Buf, s.Buf[s.Start:s.End])
			s.End -= s.Start
			s.Start = 0
		}
		// Buffer is full: give up.
		if s.End == len(s.Buf) {
			panic("token too long")
		}
		for loop := 0; ; loop++ {
			n, err := r.Read(s.Buf[s.End:])
			s.End += n
			if err != nil {
				s.eof = true
			}
			if n > 0 || err != nil {
				break
			}
			if loop > 100 {
				panic("no progress")
			}
		}
	}
}
