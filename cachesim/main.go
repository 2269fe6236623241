// Command cachesim replays memory traces through the way-halting cache and
// TLB hierarchy.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memhier/cachesim/cmd"
)

func main() {
	code := cmd.Execute()
	atexit.Exit(code)
}
