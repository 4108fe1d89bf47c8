// Command paramform serves, renders or prompts for a parameter form.
//
//	paramform serve  [-config file] [-addr :8080]
//	paramform render [-config file] [-page file|-] [-renderer vanilla|tui] [-output file]
//	paramform prompt [-config file] [-page file|-] [-format json|pretty]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, args, os.Stderr)
	case "render":
		err = runRender(ctx, args, os.Stdin, os.Stdout, os.Stderr)
	case "prompt":
		err = runPrompt(ctx, args, os.Stdin, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}

	switch {
	case err == nil:
	case errors.Is(err, errMountFailed), errors.Is(err, errNotActivated):
		os.Exit(1)
	default:
		log.Fatalf("paramform %s: %v", cmd, err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: paramform <serve|render|prompt> [flags]")
	fmt.Fprintln(w, "run 'paramform <command> -h' for command flags")
}
