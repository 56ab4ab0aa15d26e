package inject

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/dasdy/softkbd/model"
)

const DefaultBaudRate = 9600

var ErrClosed = errors.New("serial bridge is closed")

// Serial sends key events as text lines to a microcontroller acting as a USB
// HID keyboard. One line per event:
//
//	press chars="é" mods=shift+control
//	press keysym=0xff0d mods=normal
//	release
type Serial struct {
	w      io.Writer
	closer io.Closer
	lock   sync.Mutex
}

// NewSerial writes events to w. Close closes w when it is an io.Closer.
func NewSerial(w io.Writer) *Serial {
	s := &Serial{w: w}

	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}

	return s
}

// OpenSerial opens the serial port at path.
func OpenSerial(path string, baudRate int) (*Serial, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(time.Second); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("could not configure port %s: %w", path, err)
	}

	slog.Info("Opened serial bridge", "path", path, "baud", baudRate)

	return NewSerial(port), nil
}

// FormatPress renders the line sent for a press.
func FormatPress(content model.Content, modifiers model.KeyboardState) string {
	if content.IsKeySym() {
		return fmt.Sprintf("press keysym=0x%04x mods=%s", uint32(content.KeySym), modifiers)
	}

	return fmt.Sprintf("press chars=%s mods=%s", strconv.Quote(content.Chars), modifiers)
}

func (s *Serial) Press(content model.Content, modifiers model.KeyboardState) error {
	return s.writeLine(FormatPress(content, modifiers))
}

func (s *Serial) Release() error {
	return s.writeLine("release")
}

func (s *Serial) writeLine(line string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.w == nil {
		return ErrClosed
	}

	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("could not write to bridge: %w", err)
	}

	return nil
}

func (s *Serial) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.w = nil

	if s.closer == nil {
		return nil
	}

	err := s.closer.Close()
	s.closer = nil

	return err
}

// LooksLikeBridge reports whether a port name is a USB serial device.
func LooksLikeBridge(name string) bool {
	for _, marker := range []string{"tty.usbmodem", "ttyACM", "ttyUSB", "cu.usbmodem"} {
		if strings.Contains(name, marker) {
			return true
		}
	}

	return false
}

// FilterPorts keeps the ports that look like USB bridges. When none does,
// every port is returned so the user still gets a suggestion.
func FilterPorts(names []string) []string {
	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeBridge(n) {
			result = append(result, n)
		}
	}

	if len(result) != 0 {
		return result
	}

	return names
}

func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	return FilterPorts(names), nil
}
