// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smallmat/codec"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode IN.json OUT.bin",
		Short: "Convert a JSON tensor to the binary encoding",
		Args:  cobra.ExactArgs(2),
		RunE:  EncodeHandler,
	}
	cmd.Flags().Bool("half", false, "Store float elements as IEEE half precision")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode IN.bin",
		Short: "Print a binary-encoded tensor",
		Args:  cobra.ExactArgs(1),
		RunE:  DecodeHandler,
	}
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table or json")
	return cmd
}

// EncodeHandler runs `smallmat encode IN.json OUT.bin`.
func EncodeHandler(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	x, err := codec.UnmarshalJSON(b)
	if err != nil {
		return err
	}

	var opts []codec.Option
	if half, _ := cmd.Flags().GetBool("half"); half {
		opts = append(opts, codec.WithHalf())
	}
	var buf bytes.Buffer
	if err := codec.WriteBinary(&buf, x, opts...); err != nil {
		return err
	}
	return os.WriteFile(args[1], buf.Bytes(), 0o644)
}

// DecodeHandler runs `smallmat decode IN.bin`.
func DecodeHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	x, err := codec.UnmarshalBinary(b)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == formatJSON {
		j, err := codec.MarshalJSON(x)
		if err != nil {
			return err
		}
		_, err = out.Write(append(j, '\n'))
		return err
	}
	renderTensor(out, x)
	return nil
}
