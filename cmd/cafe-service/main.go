package main

import (
	"os"

	"github.com/cafehopper/cafe-hopper/server/cafeservice"
)

func main() {
	if err := cafeservice.Run(); err != nil {
		os.Exit(1)
	}
}
