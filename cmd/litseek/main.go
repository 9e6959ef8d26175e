package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/binaudit/litseek/internal/log"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:          "litseek",
	Short:        "An information leak detector for C and C++ code bases",
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [source path globs...]",
	Short: "scan a binary for string literals declared in the sources",
	RunE:  doScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provides the version of litseek",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("litseek: version info not available")
			return
		}

		fmt.Printf("litseek: %s\n", info.Main.Version)
		fmt.Printf("go:      %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:  %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:    %s\n", s.Value)
			case "vcs.modified":
				fmt.Printf("dirty:   %s\n", s.Value)
			}
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")

	// never print messages, errors are logged in main
	rootCmd.SilenceErrors = true
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		slog.SetDefault(log.New(flagVerbose))
	}

	flags := scanCmd.Flags()
	flags.StringVarP(&opts.binaryPath, "bin", "b", "", "path to the output binary to scan for leaked information")
	_ = scanCmd.MarkFlagRequired("bin")
	flags.StringArrayVarP(&opts.includeDirs, "include-dir", "I", nil, "additional include directories (only used without a compilation database)")
	flags.StringArrayVarP(&opts.definitions, "define", "D", nil, "additional preprocessor definitions (only used without a compilation database)")
	flags.StringVarP(&opts.projectPath, "project", "p", "", "compilation database (compile_commands.json)")
	flags.StringVarP(&opts.suppressionsPath, "suppressions-list", "s", "", "file containing rules to prevent certain findings from being reported")
	flags.BoolVar(&opts.ignoreMultipleDeclarations, "ignore-multiple-declarations", false, "only report leaks once for artifacts declared in multiple locations")
	flags.BoolVar(&opts.reportSystemHeaders, "report-system-headers", false, "report leaks for data declared in system headers")
	flags.BoolVarP(&opts.jsonOutput, "json", "j", false, "generate output as JSON")
	flags.BoolVar(&opts.cyclonedxOutput, "cyclonedx", false, "generate output as a CycloneDX BOM")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("litseek failed", "error", err)
		os.Exit(1)
	}
}
