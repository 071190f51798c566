// Package export produces the downloadable roster document.
package export

import (
	"fmt"
	"io"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Header is the first line of every export, in column order.
const Header = "ID,Name,Roll No,Email,Course"

// Filename is the download name hinted to the browser.
const Filename = "students.csv"

// CSVWriter streams the roster as comma-joined lines, one record at a
// time, so the full result set is never held in memory.
//
// Values are written raw: a field containing a comma corrupts its row.
// This matches the format the panel has always produced; encoding/csv
// would quote such fields and change the output bytes. Known
// limitation, kept deliberately.
type CSVWriter struct {
	w           io.Writer
	wroteHeader bool
}

// NewCSVWriter returns a writer streaming into w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteHeader emits the header line. Calling it more than once is a
// no-op, so WriteRecord can call it lazily.
func (c *CSVWriter) WriteHeader() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	_, err := io.WriteString(c.w, Header+"\n")
	return err
}

// WriteRecord emits one record line, writing the header first if it
// has not been written yet.
func (c *CSVWriter) WriteRecord(s types.Student) error {
	if err := c.WriteHeader(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.w, "%d,%s,%s,%s,%s\n", s.ID, s.Name, s.Roll, s.Email, s.Course)
	return err
}
