// Command preflight verifies that the external-provider credentials are
// present in the environment before the service is started. It prints every
// missing variable and exits non-zero if any is absent. This check is
// intentionally a separate binary: a missing credential should abort a
// deployment, not surface as per-request errors.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

var requiredVars = []string{
	"ZOOM_ACCOUNT_ID",
	"ZOOM_CLIENT_ID",
	"ZOOM_CLIENT_SECRET",
	"EMAIL_SENDER",
	"EMAIL_PASSKEY",
}

func main() {
	missing := 0
	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			fmt.Fprintf(os.Stderr, "%s is missing\n", name)
			missing++
		}
	}

	if missing > 0 {
		fmt.Fprintf(os.Stderr, "%d required credential(s) missing\n", missing)
		os.Exit(1)
	}
	fmt.Println("all provider credentials present")
}
