package probe

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/sim"
	log "github.com/sirupsen/logrus"
)

// A Record is the result of one probe firing. Values follow the order of
// the fields in the header.
type Record struct {
	Time   sim.VTime
	Values []string
}

// A Sink receives the output of a probe. WriteHeader is called once, before
// the first record.
type Sink interface {
	WriteHeader(fields []string) error
	WriteRecord(r Record) error
}

// TSVSink writes one tab-separated line per record, after a header line of
// field names.
type TSVSink struct {
	w io.Writer
}

// NewTSVSink creates a TSVSink that writes to w.
func NewTSVSink(w io.Writer) *TSVSink {
	return &TSVSink{w: w}
}

// WriteHeader writes the field names.
func (s *TSVSink) WriteHeader(fields []string) error {
	return s.writeLine(fields)
}

// WriteRecord writes the values of a record.
func (s *TSVSink) WriteRecord(r Record) error {
	return s.writeLine(r.Values)
}

func (s *TSVSink) writeLine(cells []string) error {
	_, err := io.WriteString(s.w, strings.Join(cells, "\t")+"\n")
	return errors.Wrap(err, "writing probe line")
}

// SampleEntry is the row a RecorderSink writes for every field of a record.
type SampleEntry struct {
	Probe string
	Time  uint64
	Field string
	Value string
}

// RecorderSink stores records in a table of a DataRecorder, one row per
// field.
type RecorderSink struct {
	recorder datarecording.DataRecorder
	probe    string
	table    string
	fields   []string
}

// NewRecorderSink creates a RecorderSink that writes to the given table.
func NewRecorderSink(
	recorder datarecording.DataRecorder,
	probe string,
	table string,
) *RecorderSink {
	return &RecorderSink{
		recorder: recorder,
		probe:    probe,
		table:    table,
	}
}

// Table returns the name of the table the sink writes.
func (s *RecorderSink) Table() string {
	return s.table
}

// WriteHeader creates the table.
func (s *RecorderSink) WriteHeader(fields []string) error {
	s.fields = fields

	err := s.recorder.CreateTable(s.table, SampleEntry{})

	return errors.Wrap(err, "creating probe table")
}

// WriteRecord inserts one row per field.
func (s *RecorderSink) WriteRecord(r Record) error {
	for i, field := range s.fields {
		entry := SampleEntry{
			Probe: s.probe,
			Time:  uint64(r.Time),
			Field: field,
			Value: r.Values[i],
		}

		if err := s.recorder.InsertData(s.table, entry); err != nil {
			return errors.Wrap(err, "recording probe sample")
		}
	}

	return nil
}

// LogSink logs every record at debug level, one field per log field.
type LogSink struct {
	logger log.FieldLogger
	fields []string
}

// NewLogSink creates a LogSink.
func NewLogSink(logger log.FieldLogger) *LogSink {
	return &LogSink{logger: logger}
}

// WriteHeader remembers the field names.
func (s *LogSink) WriteHeader(fields []string) error {
	s.fields = fields
	return nil
}

// WriteRecord logs the record.
func (s *LogSink) WriteRecord(r Record) error {
	entry := log.Fields{"time": r.Time}
	for i, field := range s.fields {
		entry[field] = r.Values[i]
	}

	s.logger.WithFields(entry).Debug("probe sample")

	return nil
}

// MultiSink forwards to several sinks in order and stops at the first error.
type MultiSink []Sink

// WriteHeader forwards the header.
func (m MultiSink) WriteHeader(fields []string) error {
	for _, s := range m {
		if err := s.WriteHeader(fields); err != nil {
			return err
		}
	}

	return nil
}

// WriteRecord forwards the record.
func (m MultiSink) WriteRecord(r Record) error {
	for _, s := range m {
		if err := s.WriteRecord(r); err != nil {
			return err
		}
	}

	return nil
}

// RecordingSink keeps the header and records in memory.
type RecordingSink struct {
	Fields  []string
	Records []Record
}

// WriteHeader stores the header.
func (s *RecordingSink) WriteHeader(fields []string) error {
	s.Fields = append([]string(nil), fields...)
	return nil
}

// WriteRecord stores the record.
func (s *RecordingSink) WriteRecord(r Record) error {
	s.Records = append(s.Records, r)
	return nil
}
