// Command popsectctl is a small demonstration CLI around the popsect
// engine: it loads a bundle of bit vectors from a text file and prints
// their pairwise intersection-cardinality sum. It is ambient tooling around
// the library, not part of its public API (spec.md §6 explicitly keeps the
// engine itself CLI-free) — the same relationship go-highway's
// cmd/hwygen has to the hwy package.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cristaloleg/popsect/cmd/popsectctl/internal/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("popsectctl: command failed")
		os.Exit(1)
	}
}
