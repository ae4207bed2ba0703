package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/zurustar/sybl/pkg/app"
	"github.com/zurustar/sybl/pkg/cli"
)

func main() {
	application := app.New()
	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "Usage: sybl [options] <script>  (see sybl --help)")
		}
		os.Exit(1)
	}
}
