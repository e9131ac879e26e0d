package main

import (
	"log"

	"github.com/xy-planning-network/gatehouse/warden"
	"github.com/xy-planning-network/gatehouse/web"
)

func main() {
	w, err := warden.New(warden.WithFS(web.Files))
	if err != nil {
		log.Fatal(err)
	}

	web.NewApp(w.Responder, w.EmitOracle(), w.EmitLogger()).RegisterRoutes(w.Router)

	if err := w.Serve(); err != nil {
		log.Fatal(err)
	}
}
