// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/katalvlaran/smallmat/codec"
	"github.com/katalvlaran/smallmat/tensor"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", f, formatTable, formatJSON)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

// renderTensor prints x as a grid, one table row per matrix row.
func renderTensor(w io.Writer, x tensor.Any) {
	fmt.Fprintf(w, "%s %s\n", x.DType(), x.Shape())
	cells := cellsOf(x)
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	table.AppendBulk(cells)
	table.Render()
}

func cellsOf(x tensor.Any) [][]string {
	vals := x.Float64s()
	r, c := x.Shape().Rows(), x.Shape().Cols()
	if x.Shape().IsVector() {
		r, c = 1, x.Shape().Rows()
	}
	exact := exactStrings(x)
	out := make([][]string, r)
	for i := range r {
		out[i] = make([]string, c)
		for j := range c {
			if exact != nil {
				out[i][j] = exact[i*c+j]
			} else {
				out[i][j] = strconv.FormatFloat(vals[i*c+j], 'g', -1, 64)
			}
		}
	}
	return out
}

// exactStrings formats 64-bit integer tensors without a float64 round trip.
func exactStrings(x tensor.Any) []string {
	switch t := x.(type) {
	case *tensor.Tensor[int64]:
		out := make([]string, t.Len())
		for i, v := range t.Data() {
			out[i] = strconv.FormatInt(v, 10)
		}
		return out
	case *tensor.Tensor[uint64]:
		out := make([]string, t.Len())
		for i, v := range t.Data() {
			out[i] = strconv.FormatUint(v, 10)
		}
		return out
	default:
		return nil
	}
}

// inline renders a value on one line for batch tables.
func inline(v any) string {
	x, ok := v.(tensor.Any)
	if !ok {
		return fmt.Sprint(v)
	}
	rows := cellsOf(x)
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = "[" + strings.Join(row, " ") + "]"
	}
	body := strings.Join(parts, " ")
	if x.Shape().IsMatrix() {
		body = "[" + body + "]"
	}
	return fmt.Sprintf("%s %s %s", x.DType(), x.Shape(), body)
}

// jsonValue is the JSON form of an evaluation result: a codec document
// for tensors, the bare value otherwise.
func jsonValue(v any) (json.RawMessage, error) {
	if x, ok := v.(tensor.Any); ok {
		return codec.MarshalJSON(x)
	}
	return json.Marshal(v)
}

// renderValue prints an evaluation result in the chosen format.
func renderValue(w io.Writer, op string, v any, format string) error {
	if format == formatJSON {
		raw, err := jsonValue(v)
		if err != nil {
			return err
		}
		out, err := json.Marshal(struct {
			Op    string          `json:"op"`
			Value json.RawMessage `json:"value"`
		}{op, raw})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	if x, ok := v.(tensor.Any); ok {
		renderTensor(w, x)
		return nil
	}
	_, err := fmt.Fprintln(w, v)
	return err
}
