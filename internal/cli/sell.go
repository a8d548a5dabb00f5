package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
	"sol-paper-ledger/internal/models"
)

type sellCmd struct {
	mgr    *ledger.Manager
	id     string
	mark   string
	amount string
	value  string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell part or all of an open position" }
func (*sellCmd) Usage() string {
	return `sell -id <position> -mark <mcap> (-amount <sol> | -value <sol>)

  Sells against the cost basis at the given market-cap mark. With
  -amount the given principal is sold; with -value the principal is
  derived so the proceeds equal the given value. Selling the full
  principal closes the position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "position id (required)")
	f.StringVar(&c.mark, "mark", "", "sell market cap (required)")
	f.StringVar(&c.amount, "amount", "", "principal to sell in SOL")
	f.StringVar(&c.value, "value", "", "desired proceeds in SOL")
}

func (c *sellCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usageErr("-id is required")
	}
	if (c.amount == "") == (c.value == "") {
		return usageErr("exactly one of -amount or -value is required")
	}
	mark, err := parsePositive("-mark", c.mark)
	if err != nil {
		return usageErr("%v", err)
	}

	var pos *models.Position
	if c.amount != "" {
		amount, err := parsePositive("-amount", c.amount)
		if err != nil {
			return usageErr("%v", err)
		}
		pos, err = c.mgr.PartialSell(c.id, mark, amount)
		if err != nil {
			return fail(err)
		}
	} else {
		value, err := parsePositive("-value", c.value)
		if err != nil {
			return usageErr("%v", err)
		}
		pos, err = c.mgr.SellForProceeds(c.id, mark, value)
		if err != nil {
			return fail(err)
		}
	}

	if pos.IsClosed() {
		fmt.Printf("Position %s closed at %s: proceeds %s SOL, P/L %s SOL (%s) on %s.\n",
			pos.ID, closedAtString(pos.ClosedAt), fmtSOL(pos.TotalProceeds),
			fmtSOL(pos.FinalPnl), fmtPercent(pos.FinalPnlPercent), fmtMark(pos.FinalMark))
	} else {
		fmt.Printf("Sold from %s at %s: %s SOL still invested, realized so far %s SOL.\n",
			pos.ID, fmtMark(mark), fmtSOL(pos.InvestedAmount), fmtSOL(pos.RealizedGain))
	}
	return subcommands.ExitSuccess
}
