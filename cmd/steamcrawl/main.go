package main

import (
	"context"
	"steamcrawl/cmd/steamcrawl/commands"
	"steamcrawl/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext(context.Background())
	commands.ExecuteContext(ctx)
}
