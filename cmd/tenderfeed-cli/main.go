package main

import (
	"context"
	"tenderfeed/cmd/tenderfeed-cli/commands"
	"tenderfeed/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	telemetry.SetupFromEnv(context.Background(), "tenderfeed-cli")
	commands.ExecuteContext(context.Background())
}
