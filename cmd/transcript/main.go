// Command transcript fetches a YouTube transcript from the terminal, using
// the same lookup workflow as the web viewer.
//
//	transcript get https://youtu.be/dQw4w9WgXcQ --language de --download .
//	transcript languages https://youtu.be/dQw4w9WgXcQ
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
