// Command managerctl applies the schema and administers user accounts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(openBackend).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
