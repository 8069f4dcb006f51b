package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd := createRootCmd()
	rootCmd.AddCommand(createVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initFatal prints the error and exits with a non-zero status, for failures
// during startup.
func initFatal(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", message, err)
	os.Exit(1)
}
