// Command breedfetch looks up dog sub-breeds through a memoizing cache.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/breedfetch/internal/command"
	mylog "github.com/jonwraymond/breedfetch/internal/log"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args))
}

// realMain returns 1 for setup errors and 2 for command failures.
func realMain(args []string) int {
	mylog.InitLogger()

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}
