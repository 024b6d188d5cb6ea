package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"tenderfeed/lib/serviceutil"
	"tenderfeed/lib/telemetry"
)

func main() {
	cfg := flag.String("config", "config.json5", "specify the path to a config file")
	flag.Parse()

	telemetry.InitSlog(false)

	slog.Info("loading config...")
	config := MustLoadConfig(*cfg)

	slog.Info("setting up telemetry...")
	t, err := telemetry.Setup(context.Background(), "tenderfeed-server", config.Telemetry)
	if err != nil {
		slog.Error("failed to setup telemetry", "err", err.Error())
		os.Exit(1)
	}
	defer func() {
		err := t.Shutdown(context.Background())
		if err != nil {
			slog.Error("failed to shutdown telemetry", "err", err.Error())
		}
	}()

	telemetry.InstrumentPerfStats(serviceutil.SignalContext())

	service := TendersService{
		config: config,
		tracer: t.TracerProvider.Tracer("service"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tenders", service.GetTenders)

	serviceutil.StartHttpServer(config.Port, mux)
}
