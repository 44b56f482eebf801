// Command mars-asm assembles warriors and prints the resulting load
// file, without fighting anything.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"go.creack.net/mars94/asm"
	"go.creack.net/mars94/cli"
	"go.creack.net/mars94/disasm"
)

func main() {
	log.SetFlags(0)

	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse command line: %s.", err)
	}
	if len(opts.Files) == 0 {
		log.Fatal("Usage: mars-asm [flags] file.red...")
	}

	exitCode := 0
	for _, path := range opts.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %q: %s.", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		res := asm.Assemble(name, string(data), opts.Config)
		for _, msg := range res.Messages {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, msg)
		}
		if !res.Succeeded() {
			exitCode = 1
			continue
		}
		if opts.Dump {
			spew.Dump(res.Warrior)
			continue
		}
		fmt.Print(disasm.Warrior(res.Warrior))
	}
	os.Exit(exitCode)
}
