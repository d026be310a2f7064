package main

import (
	"fmt"
	"io"

	"github.com/Veysel440/go-ip-allowlist/internal/allowlist"
)

// report prints one line per ip and returns false if any was denied.
func report(w io.Writer, l *allowlist.List, ips []string) bool {
	ok := true
	for _, ip := range ips {
		verdict := "allowed"
		if !l.Contains(ip) {
			verdict, ok = "denied", false
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ip, allowlist.Normalize(ip), verdict)
	}
	return ok
}
