package cli

import (
	"flag"
	"io"
)

const defaultConfigPath = "./hdrgen.toml"

type cliOptions struct {
	configPath string
	once       bool
	watch      bool
	force      bool
	ui         bool
	audit      bool
	history    int
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("hdrgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Generate headers once and exit (default unless -watch or -ui)")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and regenerate headers when sources change")
	fs.BoolVar(&opts.force, "force", false, "Regenerate headers even when they are newer than their sources")
	fs.BoolVar(&opts.ui, "ui", false, "Watch mode with a terminal UI")
	fs.BoolVar(&opts.audit, "audit", false, "Report extern \"C\" functions that will be missing from headers")
	fs.IntVar(&opts.history, "history", 0, "Print the last N recorded generation runs and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

func (o cliOptions) watchMode() bool {
	return o.watch || o.ui
}
