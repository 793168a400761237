// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smallmat/codec"
	"github.com/katalvlaran/smallmat/eval"
	"github.com/katalvlaran/smallmat/interop"
	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval OP",
		Short: "Evaluate one operation on JSON tensors",
		Long: `Evaluate one catalog operation.

Tensor operands are read as JSON from --file (or stdin): a single tensor
document, or an array of documents for two-operand operations (matmul).

  {"dtype": "float64", "data": [[1, 2], [3, 4]]}`,
		Example: `  smallmat eval determinant -f a.json
  echo '{"data":[3,4]}' | smallmat eval normalized
  smallmat eval diag --dim 3 --value 5
  smallmat eval pow -f a.json --exp 2 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: EvalHandler,
	}
	cmd.Flags().StringP("file", "f", "-", "JSON input file (- for stdin)")
	cmd.Flags().Float64("eps", linalg.DefaultEpsilon, "Epsilon for norm, norm_inv and normalized")
	cmd.Flags().Float64("singular-tol", -1, "Fail inverse when |det| <= tol (negative disables)")
	cmd.Flags().Int("dim", 0, "Dimension for diag")
	cmd.Flags().String("value", "", "Value for diag and fill")
	cmd.Flags().String("exp", "", "Exponent for pow")
	cmd.Flags().String("dtype", "", "Element type of diag results")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table or json")
	cmd.Flags().Bool("verify", false, "Cross-check determinant, inverse and matmul against gonum")
	cmd.Flags().Float64("tol", 1e-9, "Tolerance for --verify")
	return cmd
}

// EvalHandler runs `smallmat eval OP`.
func EvalHandler(cmd *cobra.Command, args []string) error {
	info, err := linalg.Lookup(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}

	req := eval.Request{Op: info.Name}
	if cmd.Flags().Changed("eps") {
		eps, _ := cmd.Flags().GetFloat64("eps")
		req.Epsilon = &eps
	}
	if tol, _ := cmd.Flags().GetFloat64("singular-tol"); tol >= 0 {
		req.SingularTol = &tol
	}
	req.DType, _ = cmd.Flags().GetString("dtype")

	req.Args, err = buildArgs(cmd, info)
	if err != nil {
		return err
	}
	// Fill mutates its operand, so keep a copy of the inputs for --verify.
	inputs := tensorArgs(req.Args)

	v, err := eval.Evaluate(req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := renderValue(out, info.Name, v, format); err != nil {
		return err
	}

	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		tol, _ := cmd.Flags().GetFloat64("tol")
		check, err := verifyResult(info.Name, inputs, v, tol)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), check)
	}
	return nil
}

// buildArgs assembles the operation's arguments from the input file and
// the --dim/--value/--exp flags.
func buildArgs(cmd *cobra.Command, info linalg.OpInfo) ([]any, error) {
	if info.Name == linalg.OpDiag {
		dim, _ := cmd.Flags().GetInt("dim")
		val, err := numberFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		return []any{dim, val}, nil
	}

	path, _ := cmd.Flags().GetString("file")
	tensors, err := readTensors(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(tensors))
	for i, x := range tensors {
		args[i] = x
	}

	switch info.Name {
	case linalg.OpFill:
		val, err := numberFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	case linalg.OpPow:
		exp, err := numberFlag(cmd, "exp")
		if err != nil {
			return nil, err
		}
		args = append(args, exp)
	}
	return args, nil
}

// numberFlag keeps the flag text as a json.Number so "2" stays an integer
// exponent and "2.0" does not.
func numberFlag(cmd *cobra.Command, name string) (json.Number, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	n := json.Number(s)
	if _, err := n.Float64(); err != nil {
		return "", fmt.Errorf("--%s: %q is not a number", name, s)
	}
	return n, nil
}

// readTensors reads one tensor document or an array of them.
func readTensors(stdin io.Reader, path string) ([]tensor.Any, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("no input tensor")
	}
	if b[0] != '[' {
		x, err := codec.UnmarshalJSON(b)
		if err != nil {
			return nil, err
		}
		return []tensor.Any{x}, nil
	}

	var docs []codec.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("input must be a tensor document or an array of them: %w", err)
	}
	out := make([]tensor.Any, len(docs))
	for i, d := range docs {
		if out[i], err = d.Tensor(); err != nil {
			return nil, fmt.Errorf("tensor %d: %w", i, err)
		}
	}
	return out, nil
}

func tensorArgs(args []any) []tensor.Any {
	var out []tensor.Any
	for _, a := range args {
		if x, ok := a.(tensor.Any); ok {
			out = append(out, tensor.Must(tensor.FromFloat64s[float64](x.Shape(), x.Float64s())))
		}
	}
	return out
}

func verifyResult(op string, inputs []tensor.Any, v any, tol float64) (interop.Check, error) {
	switch op {
	case linalg.OpDeterminant:
		det, ok := floatValue(v)
		if !ok {
			return interop.Check{}, fmt.Errorf("verify: unexpected %T result", v)
		}
		return interop.VerifyDeterminant(inputs[0], det, tol)
	case linalg.OpInverse:
		return interop.VerifyInverse(inputs[0], v.(tensor.Any), tol)
	case linalg.OpMatmul:
		return interop.VerifyMatmul(inputs[0], inputs[1], v.(tensor.Any), tol)
	default:
		return interop.Check{}, fmt.Errorf("verify: not available for %s", op)
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
