package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/grand/lang"
)

type testCLI struct {
	Level string `default:"info" help:"Log level"`

	Gen    Gen    `cmd:""`
	Tokens Tokens `cmd:""`
	Tree   Tree   `cmd:""`
	Fmt    Fmt    `cmd:""`
	Init   Init   `cmd:""`
}

// run parses args into a fresh testCLI and runs the selected command,
// returning everything it wrote to stdout.
func run(t *testing.T, vars kong.Vars, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
		ctx = t.Context()
	)

	parser, err := kong.New(&cli,
		kong.Writers(&out, &out),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d: %s", code, out.String()) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		vars,
	)
	require.NoError(t, err)

	ktx, err := parser.Parse(args)
	require.NoError(t, err)

	ctx = WithContext(ctx, ktx)

	err = ktx.Run()

	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "expr.gex")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestGen(t *testing.T) {
	out, err := run(t, nil, "gen", "-n", "50", "--seed", "1", "[1,", "2,", "3]")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 50)

	for _, v := range got {
		assert.Contains(t, []string{"1", "2", "3"}, v)
	}

	again, err := run(t, nil, "gen", "-n", "50", "--seed", "1", "[1, 2, 3]")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenJSON(t *testing.T) {
	out, err := run(t, nil, "gen", "-n", "2", "-o", "json", "[4]")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	for _, s := range got {
		assert.Equal(t, "4", s["value"])
		assert.Equal(t, true, s["satisfied"])
	}

	out, err = run(t, nil, "gen", "--float", "-o", "json", "[0.5]")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0]["value"], 0)
}

func TestGenYAML(t *testing.T) {
	out, err := run(t, nil, "gen", "-o", "yaml", "[7]")
	require.NoError(t, err)
	assert.Contains(t, out, `value: "7"`)
	assert.Contains(t, out, "satisfied: true")
}

func TestGenWhere(t *testing.T) {
	out, err := run(t, nil, "gen", "-n", "20", "--where", "x == 9 && i >= 0", "[1, 9]")
	require.NoError(t, err)

	for _, v := range lines(out) {
		assert.Equal(t, "9", v)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"never true", []string{"gen", "--retries", "5", "--where", "x > 100", "[1]"}, ErrFilterExhausted},
		{"syntax", []string{"gen", "--where", "x +", "[1]"}, ErrFilter},
		{"not a predicate", []string{"gen", "--where", "x * 2", "[1]"}, ErrFilter},
		{"unknown variable", []string{"gen", "--where", "y > 1", "[1]"}, ErrFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, nil, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenErrors(t *testing.T) {
	_, err := run(t, nil, "gen", "0..1|*0")
	require.ErrorIs(t, err, ErrCompile)
	assert.ErrorIs(t, err, lang.ErrZeroDivisor)

	_, err = run(t, nil, "gen", "[1, 2")
	assert.ErrorIs(t, err, lang.ErrUnexpectedToken)

	_, err = run(t, nil, "gen", "-f", writeFile(t, "[1]"), "[2]")
	assert.ErrorIs(t, err, ErrAmbiguousInput)

	_, err = run(t, nil, "gen", "-f", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrReadInput)
}

func TestTokens(t *testing.T) {
	out, err := run(t, nil, "tokens", "1..2")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`Number("1" @1:1)`,
		`RangeClosedClosed(".." @1:2)`,
		`Number("2" @1:4)`,
	}, lines(out))

	out, err = run(t, nil, "tokens", "-o", "yaml", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Number")
	assert.Contains(t, out, `text: "1"`)

	out, err = run(t, nil, "tokens", "-o", "json", "-f", writeFile(t, "[\n1]"))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Number", got[1]["kind"])
	assert.InDelta(t, 2, got[1]["line"], 0)
}

func TestTree(t *testing.T) {
	out, err := run(t, nil, "tree", "1..10|*2|!*4")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"PrecomputedRange [2, 10] values=3 |*2 |!*4 integer",
		"  Literal 1",
		"  Literal 10",
	}, lines(out))

	out, err = run(t, nil, "tree", "--no-precompute", "-i", "4", "[1, (0..5)]")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Selection items=2",
		"    Literal 1",
		"    Range [0, 5]",
		"        Literal 0",
		"        Literal 5",
	}, lines(out))

	out, err = run(t, nil, "tree", "-o", "json", "2")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Literal", got["kind"])
	assert.Equal(t, "2", got["value"])
}

func TestFmt(t *testing.T) {
	out, err := run(t, nil, "fmt", "-f", writeFile(t, "0 .. 10 | * 5\n"))
	require.NoError(t, err)
	assert.Equal(t, "0..10|*5\n", out)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	vars := kong.Vars{ConfigIdentifier: path}

	_, err := run(t, vars, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "level: info\n", string(data))

	_, err = run(t, vars, "init")
	require.ErrorIs(t, err, ErrWriteConfig)
	assert.ErrorIs(t, err, ErrFileExists)

	_, err = run(t, vars, "--level", "debug", "init", "--force")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "level: debug\n", string(data))
}

func TestOutputUnknownFormat(t *testing.T) {
	err := output{Format: "xml"}.encode(t.Context(), &bytes.Buffer{}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestErrorIs(t *testing.T) {
	err := ErrCompile.Wrap(lang.ErrNoExpressions)

	assert.ErrorIs(t, err, ErrCompile)
	assert.ErrorIs(t, err, lang.ErrNoExpressions)
	assert.NotErrorIs(t, err, ErrFilter)
	assert.Equal(t, "compile expression: no expressions or sub-expressions in program", err.Error())
}
