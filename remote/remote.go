// Package remote is the out-of-process control channel of the keyboard:
// a small operation vocabulary and a D-Bus service carrying it.
package remote

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownOp = errors.New("unknown remote operation")

type Op int

const (
	OpShow Op = iota
	OpHide
	OpToggle
	OpSetLayout
)

var opNames = map[Op]string{
	OpShow:      "show",
	OpHide:      "hide",
	OpToggle:    "toggle",
	OpSetLayout: "set-layout",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}

	return fmt.Sprintf("op(%d)", int(o))
}

func ParseOp(name string) (Op, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// Request is one remote operation. Layout is only meaningful for OpSetLayout.
type Request struct {
	Op     Op
	Layout string
}

// ParseRequest builds a request from command-line style arguments, e.g.
// ["set-layout", "us"].
func ParseRequest(args []string) (Request, error) {
	if len(args) == 0 {
		return Request{}, fmt.Errorf("%w: empty request", ErrUnknownOp)
	}

	op, err := ParseOp(args[0])
	if err != nil {
		return Request{}, err
	}

	req := Request{Op: op}

	switch {
	case op == OpSetLayout && len(args) != 2:
		return Request{}, fmt.Errorf("%s expects exactly one layout id", op)
	case op == OpSetLayout:
		req.Layout = args[1]
	case len(args) > 1:
		return Request{}, fmt.Errorf("%s takes no arguments", op)
	}

	return req, nil
}

func (r Request) String() string {
	if r.Op == OpSetLayout {
		return r.Op.String() + " " + r.Layout
	}

	return r.Op.String()
}

// Handler receives requests coming from the remote channel. It must not
// apply them directly, only queue them for the event loop.
type Handler func(Request) error
