package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// shortHash abbreviates a "sha256:..." hash for table output.
func shortHash(hash string) string {
	trimmed := strings.TrimPrefix(hash, "sha256:")
	if len(trimmed) > 12 {
		return trimmed[:12]
	}
	return trimmed
}

// printJSON pretty-prints a value to stdout.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	fmt.Println(string(data))
}
