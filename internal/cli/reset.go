package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type resetCmd struct {
	mgr *ledger.Manager
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "discard the session and return to the uninitialized state" }
func (*resetCmd) Usage() string {
	return `reset -yes

  Discards all positions, balance and history. Requires -yes as a
  confirmation.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm the reset")
}

func (c *resetCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return usageErr("refusing to reset without -yes")
	}
	if err := c.mgr.ResetSession(); err != nil {
		return fail(err)
	}
	fmt.Println("Session reset.")
	return subcommands.ExitSuccess
}
