package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/dmitrijs2005/wmsclient/internal/server"
	"github.com/dmitrijs2005/wmsclient/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(cfg, logging.New("info", "json"))
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
