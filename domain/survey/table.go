package survey

import (
	"sort"
	"strconv"

	"github.com/reallygood83/mathemotion/internal/errors"
)

// RawSheet is what every row source produces: a header row and data rows of
// plain strings. Rows may be shorter or longer than the header.
type RawSheet struct {
	Header []string
	Rows   [][]string
}

// CellKind distinguishes the missing marker from real values.
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is one normalized value. A missing cell is never the same as a zero.
type Cell struct {
	Kind CellKind
	Raw  string
	Num  float64
}

// Missing returns the missing marker.
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// Text wraps a string value; empty strings become the missing marker.
func Text(s string) Cell {
	if s == "" {
		return Missing()
	}
	return Cell{Kind: CellText, Raw: s}
}

// Number wraps a numeric value together with the text it was parsed from.
func Number(v float64, raw string) Cell {
	return Cell{Kind: CellNumber, Raw: raw, Num: v}
}

func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Float returns the numeric value and whether the cell holds one.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Num, true
}

// String renders the cell for display and export. Missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Raw != "" {
			return c.Raw
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Raw
	default:
		return ""
	}
}

// Schema is the ordered list of canonical column names shared by all records
// of a table. Duplicate names are allowed; lookups resolve to the first one.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from canonical column names.
func NewSchema(columns []string) *Schema {
	s := &Schema{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, name := range s.columns {
		if _, seen := s.index[name]; !seen {
			s.index[name] = i
		}
	}
	return s
}

// Columns returns a copy of the column names.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Has reports whether a column with the given canonical name exists.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len is the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// Record is one respondent-submission. It has exactly one cell per column.
type Record struct {
	schema *Schema
	cells  []Cell
}

// NewRecord binds cells to a schema. The cell count must match the schema.
func NewRecord(schema *Schema, cells []Cell) (Record, error) {
	if len(cells) != schema.Len() {
		return Record{}, errors.InternalError("record width does not match schema")
	}
	return Record{schema: schema, cells: cells}, nil
}

// Len is the number of cells, always equal to the header length.
func (r Record) Len() int { return len(r.cells) }

// Cells returns a copy of the record's cells in column order.
func (r Record) Cells() []Cell {
	return append([]Cell(nil), r.cells...)
}

// Get returns the cell for a canonical column name.
func (r Record) Get(name string) (Cell, bool) {
	if r.schema == nil {
		return Missing(), false
	}
	i, ok := r.schema.index[name]
	if !ok {
		return Missing(), false
	}
	return r.cells[i], true
}

// Field returns the cell for a canonical field; absent columns read as missing.
func (r Record) Field(f Field) Cell {
	c, _ := r.Get(string(f))
	return c
}

// Score returns a numeric field value and whether it is present.
func (r Record) Score(f Field) (float64, bool) {
	return r.Field(f).Float()
}

// ScoreOrZero returns the value of f, or 0 when it is missing. Only chart
// display code should use this.
func (r Record) ScoreOrZero(f Field) float64 {
	v, _ := r.Score(f)
	return v
}

// StudentName returns the respondent's name, or "" when absent.
func (r Record) StudentName() string {
	return r.Field(FieldStudentName).String()
}

// Table is an ordered collection of records sharing one schema.
type Table struct {
	Schema  *Schema
	Records []Record
	// Absent lists survey items no header label mapped to.
	Absent []Field
}

// Columns returns the canonical column names.
func (t *Table) Columns() []string {
	if t == nil || t.Schema == nil {
		return nil
	}
	return t.Schema.Columns()
}

// Len is the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Warning returns a non-fatal SchemaIncomplete error when survey items are
// absent, otherwise nil.
func (t *Table) Warning() error {
	if t == nil || len(t.Absent) == 0 {
		return nil
	}
	return errors.SchemaIncomplete(Names(t.Absent))
}

// RequireItems fails with SchemaIncomplete unless every survey item has a column.
func (t *Table) RequireItems() error {
	return t.Warning()
}

// FindStudent returns the first record whose student name matches exactly.
func (t *Table) FindStudent(name string) (Record, bool) {
	if t == nil || name == "" {
		return Record{}, false
	}
	for _, rec := range t.Records {
		if rec.StudentName() == name {
			return rec, true
		}
	}
	return Record{}, false
}

// Students returns the distinct non-empty student names in sorted order.
func (t *Table) Students() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, rec := range t.Records {
		name := rec.StudentName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Column returns every record's cell for a field, in record order.
func (t *Table) Column(f Field) []Cell {
	if t == nil {
		return nil
	}
	out := make([]Cell, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec.Field(f)
	}
	return out
}
