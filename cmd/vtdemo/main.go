// Command vtdemo scrolls through a large generated contact list with a
// recycling virtual list.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(runDemo).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
