// SPDX-License-Identifier: MIT

package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smallmat/linalg"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operations and their preconditions",
		Args:  cobra.NoArgs,
		RunE:  OpsHandler,
	}
}

// OpsHandler runs `smallmat ops`.
func OpsHandler(cmd *cobra.Command, _ []string) error {
	var data [][]string
	for _, op := range linalg.Ops() {
		dtypes := "any"
		if op.FloatOnly {
			dtypes = "float"
		}
		data = append(data, []string{op.Name, strconv.Itoa(op.Arity), dtypes, strings.Join(op.Checks, ", "), op.Summary})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "ARITY", "DTYPE", "CHECKS", "SUMMARY"})
	table.AppendBulk(data)
	table.Render()
	return nil
}
