// Blocks command line entry point.
//
// Usage:
//
//	blocks list -path ./plugins               # load scripts, list plugins
//	blocks list -config blocks.yaml           # sources from a config file
//	blocks categories -path ./plugins         # list category labels
//	blocks get -name MarkdownFilter -path .   # show one plugin
//	blocks version                            # show version information
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/blocks"
	"github.com/BaSui01/blocks/config"
	"github.com/BaSui01/blocks/script"
)

// Build-time injection via ldflags; Version falls back to the library
// version for plain go-build binaries.
var (
	Version   = blocks.Version
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList(os.Args[2:])
	case "categories":
		runCategories(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// sourceFlags are shared by every subcommand that loads plugins.
type sourceFlags struct {
	configPath string
	path       string
	recursive  bool
	categories string
}

func registerSourceFlags(fs *flag.FlagSet) *sourceFlags {
	f := &sourceFlags{}
	fs.StringVar(&f.configPath, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&f.path, "path", "", "Plugin script file or directory (replaces configured sources)")
	fs.BoolVar(&f.recursive, "recursive", false, "Descend into subdirectories of -path")
	fs.StringVar(&f.categories, "categories", "", "Comma-separated category labels applied to plugins from -path")
	return f
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	src := registerSourceFlags(fs)
	includeDisabled := fs.Bool("include-disabled", false, "Include disabled plugins")
	fs.Parse(args)

	registry, logger, err := buildRegistry(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load plugins: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	writePluginTable(os.Stdout, registry.All(*includeDisabled))
}

func runCategories(args []string) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	src := registerSourceFlags(fs)
	fs.Parse(args)

	registry, logger, err := buildRegistry(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load plugins: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	writeCategoryTable(os.Stdout, registry)
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	src := registerSourceFlags(fs)
	name := fs.String("name", "", "Plugin name to look up (required)")
	includeDisabled := fs.Bool("include-disabled", false, "Return the plugin even when disabled")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "get: -name is required")
		fs.Usage()
		os.Exit(1)
	}

	registry, logger, err := buildRegistry(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load plugins: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	p, err := registry.GetByName(*name, *includeDisabled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	writePluginDetail(os.Stdout, p)
}

// buildRegistry loads the configuration, builds a registry, and feeds
// it from the resolved script sources.
func buildRegistry(f *sourceFlags) (*blocks.Registry, *zap.Logger, error) {
	loader := config.NewLoader().WithValidator((*config.Config).Validate)
	if f.configPath != "" {
		loader = loader.WithConfigPath(f.configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, zap.NewNop(), err
	}

	logger := initLogger(cfg.Log)

	opts := []blocks.Option{blocks.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		opts = append(opts, blocks.WithMetricsNamespace(cfg.Metrics.Namespace))
	}
	registry := blocks.New(opts...)

	engine := script.NewEngine(script.WithLogger(logger))
	for _, source := range resolveSources(cfg, f) {
		var loadOpts []script.LoadOption
		if source.Recursive {
			loadOpts = append(loadOpts, script.Recursive())
		}
		if len(source.Categories) > 0 {
			loadOpts = append(loadOpts, script.AsCategories(source.Categories...))
		}
		if _, err := engine.LoadFromPath(registry, source.Path, loadOpts...); err != nil {
			return nil, logger, err
		}
	}

	return registry, logger, nil
}

// resolveSources picks the script sources for this invocation. An
// explicit -path replaces every configured source.
func resolveSources(cfg *config.Config, f *sourceFlags) []config.SourceConfig {
	if f.path != "" {
		return []config.SourceConfig{{
			Path:       f.path,
			Recursive:  f.recursive,
			Categories: splitList(f.categories),
		}}
	}
	return cfg.Sources
}

// splitList splits a comma-separated flag value, dropping empty parts.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writePluginTable(w io.Writer, plugins []blocks.Plugin) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tENABLED\tCATEGORIES")
	for _, p := range plugins {
		desc := p.Descriptor()
		fmt.Fprintf(tw, "%s\t%t\t%s\n",
			desc.Name, p.Enabled(), formatCategories(desc.EffectiveCategories()))
	}
	tw.Flush()
}

func writeCategoryTable(w io.Writer, registry *blocks.Registry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPLUGINS")
	for _, label := range registry.Categories() {
		members := registry.FilterByCategories([]string{label}, true)
		fmt.Fprintf(tw, "%s\t%d\n", label, len(members))
	}
	tw.Flush()
}

func writePluginDetail(w io.Writer, p blocks.Plugin) {
	desc := p.Descriptor()
	fmt.Fprintf(w, "%s\n", desc.Name)
	fmt.Fprintf(w, "  Enabled:    %t\n", p.Enabled())
	fmt.Fprintf(w, "  Categories: %s\n", formatCategories(desc.EffectiveCategories()))
	if src, ok := p.(interface{ Source() string }); ok {
		fmt.Fprintf(w, "  Source:     %s\n", src.Source())
	}
}

func formatCategories(labels []string) string {
	if len(labels) == 0 {
		return "(none)"
	}
	return strings.Join(labels, ", ")
}

func printVersion() {
	fmt.Printf("Blocks %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`Blocks - Lua plugin registry

Usage:
  blocks <command> [options]

Commands:
  list        List registered plugins
  categories  List category labels with member counts
  get         Show a single plugin by name
  version     Show version information
  help        Show this help message

Shared options (list, categories, get):
  -config <path>      Path to configuration file (YAML)
  -path <path>        Plugin script file or directory (replaces configured sources)
  -recursive          Descend into subdirectories of -path
  -categories <a,b>   Extra category labels applied to plugins from -path

Options for 'list':
  -include-disabled   Include disabled plugins

Options for 'get':
  -name <name>        Plugin name to look up (required)
  -include-disabled   Return the plugin even when disabled

Examples:
  blocks list -path ./plugins -recursive
  blocks list -config /etc/blocks/config.yaml -include-disabled
  blocks categories -path ./plugins
  blocks get -name MarkdownFilter -path ./plugins
  blocks version`)
}

// initLogger builds the zap logger from the logging configuration.
func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	logger, err := zapConfig.Build(opts...)
	if err != nil {
		// fall back to a basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
