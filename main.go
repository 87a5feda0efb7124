package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/semihalev/ucache/config"
	"github.com/semihalev/ucache/filter"
	"github.com/semihalev/ucache/pipeline"
	"github.com/semihalev/ucache/printer"
	"github.com/semihalev/ucache/transform"
	"github.com/semihalev/zlog/v2"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ucache",
		Short: "Merge, flatten, filter and print unbound cache dumps",
		Long: fmt.Sprintf(`Merge, flatten, filter and print unbound cache dumps.

Printers: %s
Transformers: %s
Filters: %s
  type:<T>          records of type T
  name:<regex>      owner name starts with a match of regex
  ip:<regex>        A/AAAA data starts with a match of regex
  net:<cidr>[,...]  A/AAAA data inside one of the networks
  and, or, not      operators, given after their operands (RPN)`,
			strings.Join(printer.List(), ", "),
			strings.Join(transform.List(), ", "),
			strings.Join(filter.Names, ", ")),
		Version:       version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "config file with defaults for the other flags")
	flags.StringP("load", "l", "", "snapshot to load")
	flags.StringP("save", "s", "", "save the filtered result as a snapshot")
	flags.BoolP("read", "r", false, "read a cache dump from standard input, it takes precedence over the snapshot")
	flags.StringP("printer", "p", "", "output format, one of "+strings.Join(printer.List(), ", "))
	flags.StringArrayP("filter", "f", nil, "filter token <name>[:<argument>], repeatable, in RPN order")
	flags.StringP("transformer", "t", "", "transformer applied before filtering, one of "+strings.Join(transform.List(), ", "))
	flags.IntP("maxdepth", "d", config.DefaultMaxDepth, "maximum CNAME chain length followed by the CNAME transformer")
	flags.String("loglevel", "", "log verbosity level [error,warn,info,debug]")
	flags.BoolP("help", "h", false, "print usage and exit with status 1")

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		c.PrintErr(c.UsageString())
	})

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return config.Wrap("invalid flags", err)
	})

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())

	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return config.Wrap("invalid arguments", err)
	}
	return nil
}

// buildConfig layers the flags that were set over the config file, or over
// the defaults when there is no file.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if flags.Changed("load") {
		cfg.LoadFile, _ = flags.GetString("load")
	}
	if flags.Changed("save") {
		cfg.SaveFile, _ = flags.GetString("save")
	}
	if flags.Changed("read") {
		cfg.ReadStdin, _ = flags.GetBool("read")
	}
	if flags.Changed("printer") {
		cfg.Printer, _ = flags.GetString("printer")
	}
	if flags.Changed("filter") {
		cfg.Filters, _ = flags.GetStringArray("filter")
	}
	if flags.Changed("transformer") {
		cfg.Transformer, _ = flags.GetString("transformer")
	}
	if flags.Changed("maxdepth") {
		cfg.MaxDepth, _ = flags.GetInt("maxdepth")
	}
	if flags.Changed("loglevel") {
		cfg.LogLevel, _ = flags.GetString("loglevel")
	}

	return cfg, nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}

	plan, err := pipeline.Prepare(cfg)
	if err != nil {
		return err
	}

	zlog.Debug("Starting ucache...", "version", version, "filter", plan.Filter().String())

	_, err = plan.Run(cmd.InOrStdin(), cmd.OutOrStdout())
	return err
}

func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ucache v"+version)
		},
	}
}

func newCmdConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config <path>",
		Short: "Generate a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return config.Generate(args[0])
		},
	}
}

// execute runs the command line and returns the process exit status.
func execute(root *cobra.Command) (code int) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error("Recovered in execute", "recover", r)

			_, _ = os.Stderr.WriteString(fmt.Sprintf("panic: %v\n\n", r))
			debug.PrintStack()

			code = 1
		}
	}()

	executed, err := root.ExecuteC()
	if executed == nil {
		executed = root
	}

	if err == nil {
		// cobra has already printed usage when help was asked for
		if help, _ := executed.Flags().GetBool("help"); help {
			return 1
		}
		return 0
	}

	var cfgErr *config.Error
	switch {
	case errors.As(err, &cfgErr):
		executed.PrintErrln("Error: " + err.Error())
		executed.PrintErr(executed.UsageString())
	default:
		zlog.Error("Failed", "error", err.Error())
	}

	return 1
}

func main() {
	_ = setupLogging("")

	os.Exit(execute(newRootCmd()))
}
