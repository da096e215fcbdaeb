// Command frontier turns a GraphQL mutation into a form: it lists the
// derived fields, fills the form from the terminal, or serves it over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
