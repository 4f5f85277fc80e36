package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/buildinfo"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/cli"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
