// contribux-doctor inspects a configured GitHub client: it runs the
// runtime self-checks and reports rate-limit quota, reading
// credentials from the environment or a .env file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "contribux-doctor:", err)
		os.Exit(1)
	}
}
