// cqlgen generates Go value types, entities and gocql data-access code
// from the schema of a Cassandra keyspace.
//
//	cqlgen --preview -k shop -n example.com/shop/model --schema-file shop.yaml
//	cqlgen --create -k shop -n example.com/shop/model -d 127.0.0.1 -o ./model
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, color.New(color.FgRed, color.Bold).Sprint("error:"), err)
}
