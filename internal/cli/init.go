package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type initCmd struct {
	mgr    *ledger.Manager
	amount string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "start a new session with a starting SOL balance" }
func (*initCmd) Usage() string {
	return `init -amount <sol>

  Sets the starting balance for a fresh session. Valid only when no
  session is active; use 'reset' first to start over.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "starting balance in SOL (required)")
}

func (c *initCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parsePositive("-amount", c.amount)
	if err != nil {
		return usageErr("%v", err)
	}

	if err := c.mgr.InitializeSession(amount); err != nil {
		return fail(err)
	}
	fmt.Printf("Session started with %s SOL.\n", fmtSOL(amount))
	return subcommands.ExitSuccess
}
