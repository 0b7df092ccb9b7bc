package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"golang.org/x/term"

	"mypyreveal/internal/config"
	"mypyreveal/internal/model"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	executable string
	settings   string
	timeout    timeoutFlag
	verbose    bool
}

var globals globalOptions

var rootCmd = &cobra.Command{
	Use:   "mypyreveal",
	Short: "Show the type mypy infers for an expression",
	Long: `mypyreveal injects a reveal_type() or reveal_locals() probe into a copy of
a Python buffer, runs mypy over it and shows the revealed type.

The buffer itself is never modified.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = model.Version

	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	addGlobalFlags(rootCmd.PersistentFlags(), &globals)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVarP(&o.executable, "executable", "x", "", "type checker executable (overrides project and settings)")
	fs.StringVarP(&o.settings, "settings", "s", config.DefaultSettingsPath(), "settings store (TOML)")
	fs.VarP(&o.timeout, "timeout", "t", "bound on a single checker run, e.g. 30s (default from settings, else 1m0s)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log checker invocations to stderr")
}

// configOptions returns the configuration sources named on the command line.
func (o globalOptions) configOptions() config.Options {
	return config.Options{
		SettingsPath: o.settings,
		Executable:   o.executable,
		Timeout:      o.timeout.Duration,
	}
}

// logger returns the verbose logger, or one that discards.
func (o globalOptions) logger() *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "mypyreveal: ", log.LstdFlags)
}

var updateFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if updateFlag {
			checkUpdate(cmd, model.Version)
			return
		}
		fmt.Printf("mypyreveal version %s\n", model.Version)
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&updateFlag, "update", "u", false, "check for a newer release")
}

func checkUpdate(cmd *cobra.Command, currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "mypyreveal",
		Repository: "mypyreveal",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/mypyreveal/mypyreveal/releases")
	} else if cmd.Flags().Changed("update") {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
