package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"

	"rtsim/internal/sched"
)

// Header is the column layout shared by the CSV and HTML exports.
var Header = []string{"Tick", "Type", "Task ID", "Task Name", "Description", "State"}

var ErrMalformed = errors.New("malformed journal record")

// WriteCSV dumps the journal as comma separated rows under Header.
func WriteCSV(fs afero.Fs, path string, entries []sched.Entry) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeCSV(f, entries); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// EncodeCSV writes the CSV form of entries to w.
func EncodeCSV(w io.Writer, entries []sched.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV export back into journal entries.
func ReadCSV(fs afero.Fs, path string) ([]sched.Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV is the inverse of EncodeCSV.
func DecodeCSV(r io.Reader) ([]sched.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var entries []sched.Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		e, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}

func row(e sched.Entry) []string {
	return []string{
		strconv.FormatInt(e.Tick, 10),
		e.Category.String(),
		strconv.Itoa(e.TaskID),
		e.TaskName,
		e.Description,
		e.State.String(),
	}
}

func parseRow(rec []string) (sched.Entry, error) {
	tick, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return sched.Entry{}, fmt.Errorf("%w: tick %q", ErrMalformed, rec[0])
	}
	cat, ok := sched.ParseCategory(rec[1])
	if !ok {
		return sched.Entry{}, fmt.Errorf("%w: type %q", ErrMalformed, rec[1])
	}
	id, err := strconv.Atoi(rec[2])
	if err != nil {
		return sched.Entry{}, fmt.Errorf("%w: task id %q", ErrMalformed, rec[2])
	}
	st, ok := sched.ParseState(rec[5])
	if !ok {
		return sched.Entry{}, fmt.Errorf("%w: state %q", ErrMalformed, rec[5])
	}
	return sched.Entry{
		Tick:        tick,
		Category:    cat,
		TaskID:      id,
		TaskName:    rec[3],
		Description: rec[4],
		State:       st,
	}, nil
}
