package tracing

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVWriter stores transitions in a CSV file.
type CSVWriter struct {
	path string
	w    io.Writer

	transitions []Transition
	bufferSize  int
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	c := &CSVWriter{
		w:          w,
		bufferSize: 1000,
	}
	c.writeHeader()

	return c
}

// CreateCSVWriter creates <path>.csv and a CSVWriter for it. An empty path
// picks a unique name. The file is flushed and closed when the program exits
// through atexit.
func CreateCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		path = "rtlsim_trace_" + xid.New().String()
	}

	filename := path + ".csv"
	if _, err := os.Stat(filename); err == nil {
		return nil, errors.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", filename)
	}

	c := NewCSVWriter(file)
	c.path = filename

	atexit.Register(func() {
		_ = c.Flush()
		_ = file.Close()
	})

	return c, nil
}

// Path returns the file name, if the writer owns a file.
func (c *CSVWriter) Path() string {
	return c.path
}

func (c *CSVWriter) writeHeader() {
	fmt.Fprintf(c.w, "ID, Time, Delta, Signal, Value\n")
}

// Write buffers a transition.
func (c *CSVWriter) Write(t Transition) error {
	c.transitions = append(c.transitions, t)
	if len(c.transitions) >= c.bufferSize {
		return c.Flush()
	}

	return nil
}

// Flush writes the buffered transitions.
func (c *CSVWriter) Flush() error {
	for _, t := range c.transitions {
		_, err := fmt.Fprintf(c.w, "%s, %d, %d, %s, %s\n",
			t.ID, t.Time, t.Delta, t.Signal, t.Value)
		if err != nil {
			return errors.Wrap(err, "writing transitions")
		}
	}

	c.transitions = nil

	return nil
}
