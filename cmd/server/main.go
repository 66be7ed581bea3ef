package main

import (
	"log"

	"github.com/ndthang/techmart/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
