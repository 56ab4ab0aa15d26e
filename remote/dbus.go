package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/dasdy/softkbd/logging"
)

const (
	BusName    = "org.softkbd.Keyboard"
	ObjectPath = dbus.ObjectPath("/org/softkbd/Keyboard")
	Interface  = "org.softkbd.Keyboard"

	errorName = "org.softkbd.Keyboard.Error"
)

var logCtx = logging.PackageCtx("remote")

// Server exports the keyboard object on the session bus and forwards every
// call to its handler.
type Server struct {
	conn    *dbus.Conn
	handler Handler
}

func NewServer(handler Handler) *Server {
	return &Server{handler: handler}
}

// Start connects to the session bus, exports the object and claims the bus
// name. It fails if another keyboard already owns the name.
func (s *Server) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		conn.Close()

		return fmt.Errorf("failed to export keyboard object: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()

		return fmt.Errorf("failed to request bus name: %w", err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()

		return errors.New("bus name already taken")
	}

	s.conn = conn
	slog.InfoContext(logCtx, "remote control listening", "bus_name", BusName, "path", ObjectPath)

	return nil
}

func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}

	_, _ = s.conn.ReleaseName(BusName)

	return s.conn.Close()
}

func (s *Server) Show() *dbus.Error {
	return s.dispatch(Request{Op: OpShow})
}

func (s *Server) Hide() *dbus.Error {
	return s.dispatch(Request{Op: OpHide})
}

func (s *Server) Toggle() *dbus.Error {
	return s.dispatch(Request{Op: OpToggle})
}

func (s *Server) SetLayout(id string) *dbus.Error {
	return s.dispatch(Request{Op: OpSetLayout, Layout: id})
}

func (s *Server) dispatch(req Request) *dbus.Error {
	slog.DebugContext(logCtx, "remote request", "request", req.String())

	if s.handler == nil {
		return nil
	}

	if err := s.handler(req); err != nil {
		return dbus.NewError(errorName, []any{err.Error()})
	}

	return nil
}

// Client calls a running keyboard over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func Dial() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	return &Client{conn: conn, obj: conn.Object(BusName, ObjectPath)}, nil
}

// Send performs one request and waits for the reply.
func (c *Client) Send(ctx context.Context, req Request) error {
	var args []any
	if req.Op == OpSetLayout {
		args = append(args, req.Layout)
	}

	method, err := methodFor(req.Op)
	if err != nil {
		return err
	}

	call := c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("remote %s failed: %w", req, call.Err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func methodFor(op Op) (string, error) {
	switch op {
	case OpShow:
		return "Show", nil
	case OpHide:
		return "Hide", nil
	case OpToggle:
		return "Toggle", nil
	case OpSetLayout:
		return "SetLayout", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownOp, op)
	}
}
