package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smallmat/cli"
	"github.com/katalvlaran/smallmat/codec"
	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

// run executes the CLI with args and stdin, returning stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewCLI()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEval_DeterminantFromStdin(t *testing.T) {
	out, _, err := run(t, `{"data":[[1,2],[3,4]]}`, "eval", "determinant")
	require.NoError(t, err)
	require.Equal(t, "-2\n", out)
}

func TestEval_InverseJSON(t *testing.T) {
	path := writeFile(t, "a.json", `{"dtype":"float64","shape":[2,2],"data":[1,2,3,4]}`)
	out, _, err := run(t, "", "eval", "inverse", "-f", path, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Op    string          `json:"op"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, linalg.OpInverse, got.Op)

	x, err := codec.UnmarshalJSON(got.Value)
	require.NoError(t, err)
	require.Equal(t, []float64{-2, 1, 1.5, -0.5}, x.Float64s())
}

func TestEval_TableOutput(t *testing.T) {
	out, _, err := run(t, `{"dtype":"int32","data":[[1,2,3],[4,5,6]]}`, "eval", "transpose")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "int32 3×2", lines[0])
	assert.Equal(t, []string{"1", "4"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "6"}, strings.Fields(lines[3]))
}

func TestEval_Diag(t *testing.T) {
	out, _, err := run(t, "", "eval", "diag", "--dim", "3", "--value", "5", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"dtype":"int64"`)
	require.Contains(t, out, `"data":[5,0,0,0,5,0,0,0,5]`)

	_, _, err = run(t, "", "eval", "diag", "--dim", "0", "--value", "1")
	require.ErrorIs(t, err, linalg.ErrBadDimension)

	_, _, err = run(t, "", "eval", "diag", "--dim", "2")
	require.ErrorContains(t, err, "--value is required")
}

func TestEval_PowAndNorm(t *testing.T) {
	out, _, err := run(t, `{"dtype":"int16","data":[1,2,3]}`, "eval", "pow", "--exp", "2", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"dtype":"int16"`)
	require.Contains(t, out, `"data":[1,4,9]`)

	out, _, err = run(t, `{"data":[3,4]}`, "eval", "norm", "--eps", "0")
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestEval_Matmul(t *testing.T) {
	in := `[{"data":[[1,2,3],[4,5,6]]},{"data":[1,0,-1]}]`
	out, stderr, err := run(t, in, "eval", "matmul", "-o", "json", "--verify")
	require.NoError(t, err)
	require.Contains(t, out, `"data":[-2,-2]`)
	require.Contains(t, stderr, "Matmul vs gonum")
}

func TestEval_Verify(t *testing.T) {
	in := `{"data":[[4,7,2],[0,5,1],[3,1,6]]}`
	_, stderr, err := run(t, in, "eval", "determinant", "--verify")
	require.NoError(t, err)
	require.Contains(t, stderr, "Determinant vs gonum")
	require.Contains(t, stderr, "ok")

	_, stderr, err = run(t, in, "eval", "inverse", "--verify")
	require.NoError(t, err)
	require.Contains(t, stderr, "Inverse vs gonum")

	_, _, err = run(t, in, "eval", "trace", "--verify")
	require.ErrorContains(t, err, "not available")
}

func TestEval_Errors(t *testing.T) {
	_, _, err := run(t, `{"data":[[1,2,3],[4,5,6],[7,8,9],[1,1,1],[2,2,2]],"shape":[5,3]}`, "eval", "determinant")
	require.ErrorIs(t, err, linalg.ErrNonSquare)

	five := `{"shape":[5,5],"data":[` + strings.TrimSuffix(strings.Repeat("1,", 25), ",") + `]}`
	_, _, err = run(t, five, "eval", "inverse")
	require.ErrorIs(t, err, linalg.ErrDimensionTooLarge)

	_, _, err = run(t, `{"data":[1]}`, "eval", "cholesky")
	require.ErrorIs(t, err, linalg.ErrUnknownOp)

	_, _, err = run(t, "", "eval", "sum")
	require.ErrorContains(t, err, "no input tensor")

	_, _, err = run(t, `{"data":[1]}`, "eval", "sum", "-o", "yaml")
	require.ErrorContains(t, err, "unknown output format")
}

func TestBatch(t *testing.T) {
	path := writeFile(t, "reqs.json", `[
		{"op": "determinant", "args": [{"data": [[1, 2], [3, 4]]}]},
		{"op": "diag", "args": [2, 7]},
		{"op": "norm", "args": [{"data": [3, 4]}], "eps": 0}
	]`)

	out, _, err := run(t, "", "batch", path, "-j", "2", "-o", "json")
	require.NoError(t, err)

	var lines []struct {
		Index int             `json:"index"`
		Op    string          `json:"op"`
		Value json.RawMessage `json:"value"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 3)
	assert.Equal(t, "-2", string(lines[0].Value))
	assert.Equal(t, "diag", lines[1].Op)
	d, err := codec.UnmarshalJSON(lines[1].Value)
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, d.DType())
	assert.Equal(t, []float64{7, 0, 0, 7}, d.Float64s())
	assert.Equal(t, "5", string(lines[2].Value))
}

func TestBatch_ReportsFailures(t *testing.T) {
	path := writeFile(t, "reqs.json", `[
		{"op": "trace", "args": [{"data": [1, 2]}]},
		{"op": "transpose", "args": [{"data": [1, 2]}]},
		{"op": "sum", "args": [{"data": [1, 2]}]}
	]`)

	out, _, err := run(t, "", "batch", path)
	require.ErrorContains(t, err, "1 of 3 requests failed")

	rows := map[string][]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 4, "row %q", line)
		rows[fields[1]] = fields
	}
	require.Len(t, rows, 3)
	assert.Equal(t, "error", rows["trace"][2])
	assert.Contains(t, out, "expected square matrix, got [2]")
	assert.Equal(t, "ok", rows["transpose"][2])
	assert.Contains(t, out, "float64 [2] [1 2]")
	assert.Equal(t, []string{"2", "sum", "ok", "3"}, rows["sum"])
}

func TestEncodeDecode(t *testing.T) {
	in := writeFile(t, "x.json", `{"dtype":"float32","data":[[1,0.5],[-2,4]]}`)
	bin := filepath.Join(filepath.Dir(in), "x.bin")

	_, _, err := run(t, "", "encode", in, bin, "--half")
	require.NoError(t, err)

	raw, err := os.ReadFile(bin)
	require.NoError(t, err)
	x, err := codec.UnmarshalBinary(raw)
	require.NoError(t, err)
	require.Equal(t, tensor.Float32, x.DType())
	require.Equal(t, []float64{1, 0.5, -2, 4}, x.Float64s())

	out, _, err := run(t, "", "decode", bin, "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"dtype":"float32","shape":[2,2],"data":[1,0.5,-2,4]}`, out)

	out, _, err = run(t, "", "decode", bin)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "float32 2×2\n"))

	intJSON := writeFile(t, "i.json", `{"dtype":"int8","data":[1]}`)
	_, _, err = run(t, "", "encode", intJSON, filepath.Join(filepath.Dir(intJSON), "i.bin"), "--half")
	require.ErrorIs(t, err, codec.ErrHalf)
}

func TestOps(t *testing.T) {
	out, _, err := run(t, "", "ops")
	require.NoError(t, err)
	for _, op := range linalg.Ops() {
		require.Contains(t, out, op.Name)
	}
	require.Contains(t, out, "dimension < 5")
}

func TestEnv(t *testing.T) {
	t.Setenv("SMALLMAT_JOBS", "3")
	require.Equal(t, 3, cli.Jobs())
	t.Setenv("SMALLMAT_JOBS", "many")
	require.Equal(t, 0, cli.Jobs())

	t.Setenv("SMALLMAT_DEBUG", "1")
	require.Equal(t, "DEBUG", cli.LogLevel().String())
	t.Setenv("SMALLMAT_DEBUG", "'false'")
	require.Equal(t, "INFO", cli.LogLevel().String())
}
