// Command kickoutctl replays synthetic matches against a board and works
// with the persisted kickout log.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
