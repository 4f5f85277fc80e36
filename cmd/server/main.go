package main

import (
	"context"
	"log"
	"os"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/buildinfo"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
