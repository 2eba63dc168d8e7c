package mesh

import "github.com/pkg/errors"

// Threading errors through every split, flip and walk would add a lot of noise
// to code whose failures all mean the same thing: the mesh is inconsistent and
// nothing built from it can be trusted. Instead we panic with an error wrapping
// ErrTopology, and the public API recovers it.

var ErrTopology = errors.New("topology invariant violated")

func fatalf(format string, args ...interface{}) {
	panic(errors.Wrapf(ErrTopology, format, args...))
}

// HandlePanicRecover converts a recovered topology panic into an error. Any
// other panic is re-raised.
func HandlePanicRecover(r interface{}) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok && errors.Is(err, ErrTopology) {
		return err
	}
	panic(r)
}
