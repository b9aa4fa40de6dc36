package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/cnclabs/harp/internal/cli"
)

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(out, errOut io.Writer, args []string) int {
	if err := cli.Execute(args, out, errOut); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(errOut, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
