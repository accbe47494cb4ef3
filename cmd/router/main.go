package main

import (
	"math/rand"
	"time"

	"github.com/ditef/router/internal/router"
	_ "go.uber.org/automaxprocs"
)

func main() {
	rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	router.NewApp("router").Run()
}
