// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smallmat/eval"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Evaluate a JSON array of requests concurrently",
		Long: `Evaluate a JSON array of requests. Each request names an operation and
its arguments; tensors are codec documents, numbers are JSON numbers:

  [{"op": "determinant", "args": [{"data": [[1, 2], [3, 4]]}]},
   {"op": "diag", "args": [3, 5]},
   {"op": "norm", "args": [{"data": [3, 4]}], "eps": 0}]

Results are printed in request order. A failed request is reported in its
row and does not stop the others; the command fails if any request failed.`,
		Args: cobra.ExactArgs(1),
		RunE: BatchHandler,
	}
	cmd.Flags().IntP("jobs", "j", Jobs(), "Concurrent evaluations (0 = GOMAXPROCS)")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table or json")
	return cmd
}

type batchLine struct {
	Index int             `json:"index"`
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

// BatchHandler runs `smallmat batch FILE`.
func BatchHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")

	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var reqs []eval.Request
	if err := json.Unmarshal(b, &reqs); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	start := time.Now()
	results := eval.Batch(cmd.Context(), reqs, jobs)
	slog.Debug("batch done", "requests", len(reqs), "jobs", jobs, "elapsed", time.Since(start))

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		lines := make([]batchLine, len(results))
		for i, r := range results {
			lines[i] = batchLine{Index: r.Index, Op: r.Op}
			if r.Err != nil {
				lines[i].Error = r.Err.Error()
				continue
			}
			if lines[i].Value, err = jsonValue(r.Value); err != nil {
				lines[i].Error = err.Error()
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lines); err != nil {
			return err
		}
	} else {
		var data [][]string
		for _, r := range results {
			status, value := "ok", ""
			if r.Err != nil {
				status, value = "error", r.Err.Error()
			} else {
				value = inline(r.Value)
			}
			data = append(data, []string{strconv.Itoa(r.Index), r.Op, status, value})
		}
		table := newTable(out, []string{"#", "OP", "STATUS", "RESULT"})
		table.AppendBulk(data)
		table.Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}
