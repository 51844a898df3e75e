package cmd

import (
	"context"
	"fmt"
)

// Fmt prints the canonical source form of an expression.
type Fmt struct {
	Input input `embed:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.Input.compile(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), prog)

	return err
}
