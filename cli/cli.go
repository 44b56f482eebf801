// Package cli parses the pMARS-style command line shared by the
// battle and viewer binaries: single-letter flags, joined or split
// values, followed by warrior files.
package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.creack.net/mars94/asm"
	"go.creack.net/mars94/assets"
	"go.creack.net/mars94/op"
)

// Options is everything the command line selects.
type Options struct {
	Config  op.Config
	Files   []string
	Verbose bool
	Brief   bool
	Dump    bool
}

// intFlags maps each value-carrying flag to its Config destination.
func intFlags(cfg *op.Config) map[string]*int {
	return map[string]*int{
		"-s": &cfg.CoreSize,
		"-c": &cfg.MaxCycles,
		"-p": &cfg.MaxProcesses,
		"-l": &cfg.MaxLength,
		"-d": &cfg.MinSeparation,
		"-r": &cfg.Rounds,
		"-S": &cfg.PSpaceSize,
		"-F": &cfg.FixedPosition,
	}
}

// Parse walks args (without the program name) by hand so joined forms
// like "-s8000" work alongside "-s 8000".
func Parse(args []string) (*Options, error) {
	opts := &Options{Config: op.DefaultConfig()}
	ints := intFlags(&opts.Config)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "" {
			continue
		}
		if arg[0] != '-' || arg == "-" {
			opts.Files = append(opts.Files, arg)
			continue
		}

		switch arg {
		case "-k":
			opts.Config.FixedSeries = true
			continue
		case "-v":
			opts.Verbose = true
			continue
		case "-b":
			opts.Brief = true
			continue
		case "-dump":
			opts.Dump = true
			continue
		}

		flag, value := arg, ""
		if len(arg) > 2 {
			flag, value = arg[:2], arg[2:]
		}
		if value == "" {
			if i+1 >= len(args) {
				return nil, errors.Errorf("missing value for %s flag", flag)
			}
			i++
			value = args[i]
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Errorf("invalid number for %s flag: %q", flag, value)
		}
		if flag == "-e" {
			opts.Config.Seed = int32(n)
			continue
		}
		dst, ok := ints[flag]
		if !ok {
			return nil, errors.Errorf("unknown flag: %s", arg)
		}
		*dst = n
	}

	if opts.Config.CoreSize < 2 {
		return nil, errors.Errorf("core size %d too small", opts.Config.CoreSize)
	}
	opts.Config.Warriors = len(opts.Files)
	if opts.Config.Warriors == 0 {
		opts.Config.Warriors = 2
	}
	return opts, nil
}

// LoadWarriors assembles the selected files. With no files it falls
// back to the embedded Imp vs Dwarf demo pair.
func (o *Options) LoadWarriors() ([]*op.WarriorData, error) {
	if len(o.Files) == 0 {
		imp, err := asm.Compile("imp", assets.Imp, o.Config)
		if err != nil {
			return nil, err
		}
		dwarf, err := asm.Compile("dwarf", assets.Dwarf, o.Config)
		if err != nil {
			return nil, err
		}
		return []*op.WarriorData{imp, dwarf}, nil
	}

	out := make([]*op.WarriorData, 0, len(o.Files))
	for _, path := range o.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %q", path)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		w, err := asm.Compile(name, string(data), o.Config)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
