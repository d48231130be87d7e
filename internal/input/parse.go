package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultNamespace is used for action names without a namespace.
const DefaultNamespace = "table"

// ErrInvalidAction is returned when an action string cannot be parsed.
var ErrInvalidAction = errors.New("invalid action")

// ParseAction parses "name[:key=value,...]". Values that parse as
// integers, floats or booleans are converted; everything else stays a
// string.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, rest, hasArgs := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Action{}, fmt.Errorf("%w: empty name in %q", ErrInvalidAction, s)
	}
	if !strings.Contains(name, ".") {
		name = DefaultNamespace + "." + name
	}

	action := Action{Name: name}
	if !hasArgs {
		return action, nil
	}
	for _, pair := range strings.Split(rest, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Action{}, fmt.Errorf("%w: argument %q in %q is not key=value", ErrInvalidAction, pair, s)
		}
		action = action.WithArg(key, ParseValue(strings.TrimSpace(value)))
	}
	return action, nil
}

// ParseValue converts a textual argument to an int, float64 or bool when
// it has that form.
func ParseValue(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
