package main

import (
	"context"

	"parislib/cmd/parislib-cli/commands"
	"parislib/lib/util/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
