package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/grand/lang"
	"github.com/ardnew/grand/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// input selects where a command reads its expression from.
type input struct {
	Expr []string `arg:"" help:"Grand Expression, joined with spaces if given as multiple arguments" name:"expr" optional:""`
	File string   `       help:"Read the expression from file or '-' for stdin"                                  short:"f" type:"path"`
}

// open returns a reader over the expression and a function releasing it.
func (in input) open() (io.Reader, func() error, error) {
	nop := func() error { return nil }

	switch {
	case in.File != "" && len(in.Expr) > 0:
		return nil, nop, ErrAmbiguousInput.With(slog.String("file", in.File))

	case len(in.Expr) > 0:
		return strings.NewReader(strings.Join(in.Expr, " ")), nop, nil

	case in.File == "" || in.File == stdinSource:
		return os.Stdin, nop, nil
	}

	f, err := os.Open(in.File)
	if err != nil {
		return nil, nop, ErrReadInput.Wrap(err).With(slog.String("file", in.File))
	}

	return f, f.Close, nil
}

// read returns the expression source text.
func (in input) read() (string, error) {
	r, done, err := in.open()
	if err != nil {
		return "", err
	}
	defer done()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

// compile compiles the expression with the default logger attached.
func (in input) compile(
	ctx context.Context,
	opts ...lang.Option,
) (*lang.Program, error) {
	r, done, err := in.open()
	if err != nil {
		return nil, err
	}
	defer done()

	opts = append([]lang.Option{lang.WithLogger(log.Default())}, opts...)

	prog, err := lang.CompileReader(ctx, r, opts...)
	if err != nil {
		return nil, ErrCompile.Wrap(err)
	}

	return prog, nil
}

// output selects the encoding of a command's result.
type output struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})"        short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML" short:"i"`
}

// encode writes v to w as JSON or YAML, or calls text for the text format.
func (o output) encode(
	ctx context.Context,
	w io.Writer,
	v any,
	text func(io.Writer) error,
) error {
	switch o.Format {
	case "", "text":
		return text(w)

	case "json":
		data, err := json.MarshalIndent(v, "", strings.Repeat(" ", o.Indent))
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = w.Write(append(data, '\n'))

		return err

	case "yaml":
		var opts []yaml.EncodeOption
		if o.Indent > 0 {
			opts = append(opts, yaml.Indent(o.Indent))
		}

		data, err := yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return ErrUnknownFormat.With(slog.String("format", o.Format))
	}
}
