package cmd

import (
	"context"

	"github.com/ardnew/grand/cli/cmd/repl"
	"github.com/ardnew/grand/lang"
	"github.com/ardnew/grand/log"
)

// Repl starts an interactive session that samples each expression entered.
type Repl struct {
	History      string `default:"${history}" help:"History file"                                             type:"path"`
	Retries      int    `default:"1000"       help:"Draws allowed per constrained range before giving up"`
	Budget       int64  `default:"1048576"    help:"Memory budget in bytes for precomputed value tables"`
	Scale        int32  `default:"9"          help:"Fractional digits of continuous samples"`
	NoPrecompute bool   `                     help:"Always sample constrained ranges by rejection"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, r.History, log.Default(),
		lang.WithRetries(r.Retries),
		lang.WithMemoryBudget(r.Budget),
		lang.WithScale(r.Scale),
		lang.WithPrecompute(!r.NoPrecompute),
	)
}
