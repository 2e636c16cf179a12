package ts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadParam reports a malformed or unknown module parameter.
var ErrBadParam = errors.New("ts: bad parameter")

// Var binds one parameter name to the callback that parses its value.
// Modules declare a table of Vars for the options they accept.
type Var struct {
	Name  string
	Parse func(value string) error
}

// ParseParams splits params into whitespace-separated name=value options
// and dispatches each value to the matching Var. Options without '=' get
// an empty value. Unknown names and parse failures abort with ErrBadParam.
func ParseParams(params string, vars []Var) error {
	for _, field := range strings.Fields(params) {
		name, value, _ := strings.Cut(field, "=")
		parsed := false
		for _, v := range vars {
			if v.Name != name {
				continue
			}
			if err := v.Parse(value); err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrBadParam, name, value, err)
			}
			parsed = true
			break
		}
		if !parsed {
			return fmt.Errorf("%w: unknown option %q", ErrBadParam, name)
		}
	}
	return nil
}
