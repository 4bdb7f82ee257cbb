package viamsudoku

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BoardMatrix is the recognized rows x cols grid of digits; 0 marks an empty cell.
// The pipeline fills it once and it is read-only afterwards.
type BoardMatrix struct {
	rows, cols int
	values     []int
}

// NewBoardMatrix returns an all-empty board.
func NewBoardMatrix(rows, cols int) *BoardMatrix {
	return &BoardMatrix{rows: rows, cols: cols, values: make([]int, rows*cols)}
}

// Rows is the number of rows.
func (b *BoardMatrix) Rows() int { return b.rows }

// Cols is the number of columns.
func (b *BoardMatrix) Cols() int { return b.cols }

// At returns the digit at row r, column c.
func (b *BoardMatrix) At(r, c int) int {
	return b.values[r*b.cols+c]
}

func (b *BoardMatrix) set(r, c, v int) {
	b.values[r*b.cols+c] = v
}

// Values returns a copy of the board as nested slices.
func (b *BoardMatrix) Values() [][]int {
	out := make([][]int, b.rows)
	for r := range out {
		out[r] = append([]int(nil), b.values[r*b.cols:(r+1)*b.cols]...)
	}
	return out
}

// String renders the board in its canonical text form: one line per row, digits separated by a
// single space.
func (b *BoardMatrix) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(b.At(r, c)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the canonical text form to w.
func (b *BoardMatrix) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// ParseBoardMatrix reads the canonical text form. Blank lines are skipped and every row must have
// the same number of columns.
func ParseBoardMatrix(r io.Reader) (*BoardMatrix, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidInput, "row %d: %v", len(rows), err)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, errors.Wrapf(ErrInvalidInput, "row %d has %d columns, want %d", len(rows), len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty board")
	}

	b := NewBoardMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		copy(b.values[r*b.cols:], row)
	}
	return b, nil
}
