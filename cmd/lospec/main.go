// Command lospec inspects Lospec palettes and applies them to images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

type command struct {
	usage string
	run   func(env *cliEnv, args []string) error
}

// cliEnv carries what subcommands share.
type cliEnv struct {
	cfg config
	log *logrus.Logger
	out io.Writer
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"info":    {"info [-palette name]", runInfo},
		"closest": {"closest [-palette name] [-metric m] color...", runClosest},
		"swatch":  {"swatch [-palette name] -output file.png", runSwatch},
		"remap":   {"remap [-palette name] [-dither] -input image -output image", runRemap},
		"import":  {"import [-name name] file", runImport},
		"list":    {"list", runList},
		"delete":  {"delete name", runDelete},
		"watch":   {"watch [-root dir]", runWatch},
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lospec <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  lospec %s\n", commands[name].usage)
	}
}

func run(args []string, out io.Writer, log *logrus.Logger) int {
	if len(args) < 1 {
		usage(os.Stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", args[0])
		usage(os.Stderr)
		return 2
	}

	cfg := loadConfig(log)
	log.SetLevel(cfg.LogLevel)
	env := &cliEnv{cfg: cfg, log: log, out: out}
	if err := cmd.run(env, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		log.WithError(err).WithField("command", args[0]).Error("Command failed")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, newLogger()))
}
