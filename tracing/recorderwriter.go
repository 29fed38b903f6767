package tracing

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/datarecording"
)

// TransitionTable is the default table of a RecorderWriter.
const TransitionTable = "signal_transitions"

// RecorderWriter stores transitions in a table of a DataRecorder.
type RecorderWriter struct {
	recorder datarecording.DataRecorder
	table    string
	created  bool
}

// NewRecorderWriter creates a RecorderWriter. The table is created with the
// first transition.
func NewRecorderWriter(
	recorder datarecording.DataRecorder,
	table string,
) *RecorderWriter {
	if table == "" {
		table = TransitionTable
	}

	return &RecorderWriter{
		recorder: recorder,
		table:    table,
	}
}

// Write buffers a transition in the recorder.
func (w *RecorderWriter) Write(t Transition) error {
	if !w.created {
		if err := w.recorder.CreateTable(w.table, Transition{}); err != nil {
			return errors.Wrap(err, "creating transition table")
		}

		w.created = true
	}

	return w.recorder.InsertData(w.table, t)
}

// Flush flushes the recorder.
func (w *RecorderWriter) Flush() error {
	return w.recorder.Flush()
}
