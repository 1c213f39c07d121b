package enforce

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

type FaultKind uint8

const (
	ConfigurationFault     FaultKind = iota // Declared node/arc capacity is insufficient, or an argument is out of range.
	ProtocolViolationFault                  // Operation called in the wrong lifecycle state.
	AllocationFailure                       // Storage could not be sized for the declared counts.
	InvariantViolation                      // Internal consistency check failed (e.g. verification after flow recovery).
)

func (k FaultKind) String() string {
	switch k {
	case ConfigurationFault:
		return "ConfigurationFault"
	case ProtocolViolationFault:
		return "ProtocolViolationFault"
	case AllocationFailure:
		return "AllocationFailure"
	case InvariantViolation:
		return "InvariantViolation"
	}
	return "Fault(" + fmt.Sprint(uint8(k)) + ")"
}

// Fault is the panic value raised by FAULT. None of these are recoverable; a recover() is only expected in tests.
type Fault struct {
	Kind FaultKind
	Msg  string
}

func (f Fault) Error() string {
	return f.Kind.String() + ": " + f.Msg
}

// FAULT logs and halts with a typed Fault.
func FAULT(kind FaultKind, args ...interface{}) {
	f := Fault{Kind: kind, Msg: fmt.Sprint(args...)}
	log.Error().Str("fault", kind.String()).Msg(f.Msg)
	panic(f)
}

// ENFORCE helper to halt program on error
func ENFORCE(query interface{}, args ...interface{}) {
	switch t := query.(type) {
	case bool:
		if !t {
			log.Error().Msg("ENFORCE: " + fmt.Sprint(args...))
			panic(Fault{Kind: InvariantViolation, Msg: fmt.Sprint(args...)})
		}
	case error:
		if t != nil {
			log.Error().Err(t).Msg("ENFORCE: " + fmt.Sprint(args...))
			panic(t)
		}
	case string:
		log.Error().Msg("ENFORCE: " + t + " " + fmt.Sprint(args...))
		panic(t)
	case nil:
		// Allow nil to pass since we sometimes do enforce.ENFORCE(err) to ensure there is no error
	default:
		log.Error().Msg("ENFORCE: incorrect usage of enforce with type: " + fmt.Sprintf("%T", t) + " - " + fmt.Sprint(args...))
		panic(t)
	}
}

// checkCompiler Enforces a 64bit machine due to assumptions about sizeof(int).
func checkCompiler() {
	myint := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myint64 := int64(math.MaxInt64)
	ENFORCE(uint64(myint) == uint64(myint64), "Must be on 64 bit system.")
}

// Try runs fn and returns the Fault it raised, or nil. Panics that are not a Fault propagate.
func Try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(Fault)
			if !ok {
				panic(r)
			}
			err = f
		}
	}()
	fn()
	return nil
}
