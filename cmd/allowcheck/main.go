// Command allowcheck reports whether addresses pass the configured allowlist.
package main

import (
	"fmt"
	"os"

	"github.com/Veysel440/go-ip-allowlist/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: allowcheck <ip>...")
		os.Exit(2)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if !report(os.Stdout, cfg.List(), os.Args[1:]) {
		os.Exit(1)
	}
}
