package main

import (
	"github.com/nfrund/chatrelay/internal/server"
)

func main() {
	s := server.New()
	s.RegisterRoutes()
	s.Start()
}
