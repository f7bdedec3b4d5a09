package main

import (
	"errors"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		if errors.Is(err, errNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
