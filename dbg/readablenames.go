package dbg

import (
	"fmt"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Random readable names, which are easier to follow in logs than addresses.

var (
	mu    sync.Mutex // a Caser is stateful
	title = cases.Title(language.English)
)

func init() {
	// Names are drawn in order of demand, so make them nondeterministic to
	// remind the reader that the same name doesn't refer to the same thing
	// between runs.
	petname.NonDeterministicMode()
}

// Fresh returns a new name every call, such as "BraveOtter".
func Fresh() string {
	mu.Lock()
	defer mu.Unlock()
	return fmt.Sprintf("%s%s", title.String(petname.Adjective()), title.String(petname.Name()))
}
