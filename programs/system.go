package programs

import (
	goerrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"rpgexec/engine"
	"rpgexec/errors"
	"rpgexec/logging"
)

// System is the SystemInterface handed to the engine: programs come from a
// Registry and DSPLY output goes to a display sink
type System struct {
	registry *Registry
	display  engine.Display
	logger   logging.Logger
}

// NewSystem creates a system over registry. A nil display discards output
// and a nil logger discards diagnostics.
func NewSystem(registry *Registry, display engine.Display, logger logging.Logger) *System {
	if display == nil {
		display = NewWriterDisplay(io.Discard)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &System{
		registry: registry,
		display:  display,
		logger:   logger.WithComponent("programs"),
	}
}

// Display forwards text to the display sink
func (s *System) Display(text string) {
	s.display.Display(text)
}

// FindProgram resolves name in the registry. A program that is registered
// but cannot be created is reported as missing and logged as an error.
func (s *System) FindProgram(name string) (engine.Program, bool) {
	program, err := s.registry.Resolve(name)
	if err == nil {
		return program, true
	}
	if goerrors.Is(err, errors.ErrProgramNotFound) {
		s.logger.WithError(err).Debug("program not registered", logging.StringField("callee", name))
	} else {
		s.logger.ErrorExecution(err, logging.StringField("callee", name))
	}
	return nil, false
}

// Registry returns the program registry
func (s *System) Registry() *Registry { return s.registry }

// WriterDisplay writes every displayed text as a line to an io.Writer
type WriterDisplay struct {
	w     io.Writer
	mutex sync.Mutex
}

// NewWriterDisplay creates a display writing to w
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Display writes text followed by a newline
func (d *WriterDisplay) Display(text string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	fmt.Fprintln(d.w, text)
}

// CollectingDisplay keeps everything displayed in memory
type CollectingDisplay struct {
	lines []string
	mutex sync.Mutex
}

// NewCollectingDisplay creates an empty collecting display
func NewCollectingDisplay() *CollectingDisplay {
	return &CollectingDisplay{}
}

// Display appends text
func (d *CollectingDisplay) Display(text string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.lines = append(d.lines, text)
}

// Lines returns a copy of the collected texts
func (d *CollectingDisplay) Lines() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]string(nil), d.lines...)
}

// String joins the collected texts with newlines
func (d *CollectingDisplay) String() string {
	return strings.Join(d.Lines(), "\n")
}
