package cli

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/pipeline"
)

// Config is the content of a navgen.toml file. Unset fields keep the
// pipeline defaults.
type Config struct {
	ModuleName string   `toml:"module_name"`
	Package    string   `toml:"package"`
	Output     string   `toml:"output"`
	SourceRoot string   `toml:"source_root"`
	NavGraphs  *bool    `toml:"nav_graphs"`
	Modules    []string `toml:"modules"`
	KeepGoing  bool     `toml:"keep_going"`
	Workers    int      `toml:"workers"`
}

// loadConfig reads the config file at path. With an empty path the default
// file in the working directory is used when it exists, and a missing
// default file yields an empty config.
func loadConfig(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, "", errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &cfg, path, nil
}

// apply copies the config onto opts.
func (cfg *Config) apply(opts *pipeline.Options) {
	opts.ModuleName = cfg.ModuleName
	opts.BasePackage = cfg.Package
	opts.Output = cfg.Output
	opts.SourceRoot = cfg.SourceRoot
	if cfg.NavGraphs != nil {
		opts.SkipNavGraphs = !*cfg.NavGraphs
	}
	opts.Modules = cfg.Modules
	opts.KeepGoing = cfg.KeepGoing
	opts.Workers = cfg.Workers
}

// =============================================================================
// Run Flags
// =============================================================================

// runFlags are the flags shared by every command that runs the pipeline.
// A flag set on the command line wins over the config file.
type runFlags struct {
	moduleName    string
	basePackage   string
	sourceRoot    string
	skipNavGraphs bool
	modules       []string
	keepGoing     bool
	workers       int
}

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.moduleName, "module-name", "", "prefix of the generated nav graphs object")
	fl.StringVar(&f.basePackage, "package", "", "package of generated code (default "+pipeline.DefaultBasePackage+")")
	fl.StringVar(&f.sourceRoot, "source-root", "", "directory source positions are relative to")
	fl.BoolVar(&f.skipNavGraphs, "no-nav-graphs", false, "do not generate the nav graphs object")
	fl.StringSliceVar(&f.modules, "module", nil, "available extension module (animations, bottom-sheet); repeatable")
	fl.BoolVarP(&f.keepGoing, "keep-going", "k", false, "leave failing screens out instead of aborting")
	fl.IntVarP(&f.workers, "workers", "j", 0, "screens processed in parallel (default GOMAXPROCS)")
}

func (f *runFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("module-name") {
		opts.ModuleName = f.moduleName
	}
	if fl.Changed("package") {
		opts.BasePackage = f.basePackage
	}
	if fl.Changed("source-root") {
		opts.SourceRoot = f.sourceRoot
	}
	if fl.Changed("no-nav-graphs") {
		opts.SkipNavGraphs = f.skipNavGraphs
	}
	if fl.Changed("module") {
		opts.Modules = f.modules
	}
	if fl.Changed("keep-going") {
		opts.KeepGoing = f.keepGoing
	}
	if fl.Changed("workers") {
		opts.Workers = f.workers
	}
}

// options builds the pipeline options of a command: config file first, then flags.
func (c *CLI) options(cmd *cobra.Command, feedPath string, flags *runFlags) (pipeline.Options, error) {
	cfg, path, err := loadConfig(c.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	if path != "" {
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)
	}

	var opts pipeline.Options
	cfg.apply(&opts)
	flags.apply(cmd, &opts)
	opts.FeedPath = feedPath
	return opts, nil
}
