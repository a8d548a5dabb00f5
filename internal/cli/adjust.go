package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type adjustCmd struct {
	mgr   *ledger.Manager
	delta string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "deposit or withdraw SOL unrelated to any position" }
func (*adjustCmd) Usage() string {
	return `adjust -delta <sol>

  Adjusts the cash balance by <sol>; negative values withdraw. The
  balance may not go below zero.
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.delta, "delta", "", "balance change in SOL, may be negative (required)")
}

func (c *adjustCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	delta, err := parseFinite("-delta", c.delta)
	if err != nil {
		return usageErr("%v", err)
	}

	if err := c.mgr.AdjustBalance(delta); err != nil {
		return fail(err)
	}
	fmt.Printf("Balance adjusted by %s SOL; now %s SOL.\n", fmtSOL(delta), fmtSOL(c.mgr.State().Balance))
	return subcommands.ExitSuccess
}
