package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type buyCmd struct {
	mgr    *ledger.Manager
	id     string
	mark   string
	amount string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "DCA-buy more into an open position" }
func (*buyCmd) Usage() string {
	return `buy -id <position> -mark <mcap> -amount <sol>

  Buys more into an open position at the current market-cap mark. The
  average entry mark is recomputed as the capital-weighted average of
  all buys.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "position id (required)")
	f.StringVar(&c.mark, "mark", "", "current market cap (required)")
	f.StringVar(&c.amount, "amount", "", "amount to buy in SOL (required)")
}

func (c *buyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usageErr("-id is required")
	}
	mark, err := parsePositive("-mark", c.mark)
	if err != nil {
		return usageErr("%v", err)
	}
	amount, err := parsePositive("-amount", c.amount)
	if err != nil {
		return usageErr("%v", err)
	}

	if err := c.mgr.BuyMore(c.id, mark, amount); err != nil {
		return fail(err)
	}
	fmt.Printf("Bought %s SOL into %s at %s.\n", fmtSOL(amount), c.id, fmtMark(mark))
	return subcommands.ExitSuccess
}
