// Command mars fights warriors on the command line and prints the
// final standings.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"go.creack.net/mars94/cli"
	"go.creack.net/mars94/hill"
)

func main() {
	log.SetFlags(0)

	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse command line: %s.", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if opts.Brief {
		logger.SetLevel(logrus.WarnLevel)
	}

	warriors, err := opts.LoadWarriors()
	if err != nil {
		log.Fatalf("Failed to load warriors: %s.", err)
	}
	for _, w := range warriors {
		for _, warn := range w.Warnings {
			logger.WithField("warrior", w.Name).Warn(warn)
		}
	}

	st, err := hill.Run(opts.Config, warriors, hill.DefaultFormula, logger)
	if err != nil {
		log.Fatalf("Failed to run battle: %s.", err)
	}

	if opts.Brief {
		for _, e := range st.Entries {
			fmt.Printf("%s %d %d %d\n", e.Name, e.Wins, e.Ties, e.Losses)
		}
		return
	}
	fmt.Printf("Results after %d round(s):\n%s\n", st.Rounds, st.Table(context.Background()))
}
