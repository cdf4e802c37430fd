package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mapgen/pkg/engine"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type options struct {
	configPath string
	showParams bool
	overrides  kvList
}

func (o *options) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "YAML config file; flags override it")
	fs.BoolVar(&o.showParams, "params", false, "print the parameter snapshot and exit")
	fs.Var(&o.overrides, "set", "parameter override in key=value form (repeatable)")
}

// parseArgs resolves the config in order: defaults, the -config file, flags,
// then -set overrides.
func parseArgs(args []string) (engine.Config, options, error) {
	var opts options
	cfg := engine.DefaultConfig()
	fs := flag.NewFlagSet("mapgen", flag.ExitOnError)
	opts.bind(fs)
	cfg.Bind(fs)
	fs.Parse(args)

	if opts.configPath != "" {
		fileCfg, err := engine.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, opts, err
		}
		cfg = fileCfg
		opts = options{}
		fs = flag.NewFlagSet("mapgen", flag.ExitOnError)
		opts.bind(fs)
		cfg.Bind(fs)
		fs.Parse(args)
	}

	overrides := map[string]string{}
	for _, kv := range opts.overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			log.Printf("ignoring override %q: want key=value", kv)
			continue
		}
		overrides[key] = value
	}
	cfg = cfg.With(overrides)
	return cfg, opts, cfg.Validate()
}

func main() {
	cfg, opts, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if opts.showParams {
		for _, g := range cfg.Parameters().Groups {
			fmt.Printf("%s\n", g.Name)
			for _, p := range g.Params {
				fmt.Printf("  %-22s %-8s %s\n", p.Key, p.Type, p.Value)
			}
		}
		return
	}

	res, err := engine.Generate(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Stage timings:\n")
	for _, st := range res.Stats {
		fmt.Printf("  %-10s %10s %+8d KiB  %d diagnostics\n", st.Stage, st.Duration, st.MemDelta/1024, len(st.Diagnostics))
	}
	fmt.Printf("\n%s\n", engine.Summarize(res))

	p := res.Pack
	for _, s := range p.States[1:] {
		fmt.Printf("  state %-3d %-24s capital %-16s cells=%d burgs=%d urban=%.2f rural=%.1f\n",
			s.ID, s.Name, p.Burgs[s.Capital].Name, s.Cells, s.Burgs, s.Urban, s.Rural)
	}
}
