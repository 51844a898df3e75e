package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/grand/lang"
	"github.com/ardnew/grand/log"
)

// Tokens prints the token stream of an expression without parsing it.
type Tokens struct {
	Input  input  `embed:""`
	Output output `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, err := t.Input.read()
	if err != nil {
		return err
	}

	tokens := lang.Tokenize(source)

	log.TraceContext(ctx, "tokenized",
		slog.Int("source_length", len(source)),
		slog.Int("token_count", len(tokens)),
	)

	return t.Output.encode(ctx, stdout(ctx), tokens, func(w io.Writer) error {
		for _, tok := range tokens {
			if _, err := fmt.Fprintln(w, tok); err != nil {
				return err
			}
		}

		return nil
	})
}
