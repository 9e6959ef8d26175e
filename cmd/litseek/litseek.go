package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/binaudit/litseek/internal/binscan"
	"github.com/binaudit/litseek/internal/catalog"
	"github.com/binaudit/litseek/internal/compiledb"
	"github.com/binaudit/litseek/internal/log"
	"github.com/binaudit/litseek/internal/report"
	"github.com/binaudit/litseek/internal/source"
	"github.com/binaudit/litseek/internal/suppress"
)

type scanOptions struct {
	binaryPath                 string
	includeDirs                []string
	definitions                []string
	projectPath                string
	suppressionsPath           string
	ignoreMultipleDeclarations bool
	reportSystemHeaders        bool
	jsonOutput                 bool
	cyclonedxOutput            bool
}

var opts scanOptions

// doScan runs the whole pipeline: compile-command enumeration, literal
// extraction, catalog admission, binary scan and report. Exit code is 0 on
// successful completion whether or not leaks were confirmed; any fatal error
// propagates and turns into a non-zero exit in main.
func doScan(cmd *cobra.Command, args []string) error {
	ctx := log.ContextAttrs(cmd.Context(),
		slog.String("cmd", "scan"),
		slog.Int("pid", os.Getpid()),
	)

	// validate the target before any parsing work starts
	scanner := binscan.New(4)
	if err := scanner.Load(opts.binaryPath); err != nil {
		return err
	}

	var rules *suppress.Suppressions
	if opts.suppressionsPath != "" {
		slog.InfoContext(ctx, "parsing suppressions file", "path", opts.suppressionsPath)
		var err error
		rules, err = suppress.LoadFile(opts.suppressionsPath)
		if err != nil {
			return fmt.Errorf("failed to parse suppressions list: %w", err)
		}
	}

	slog.InfoContext(ctx, "gathering source files")
	db, err := database(ctx, args)
	if err != nil {
		return err
	}
	commands, err := db.CompileCommands()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "extracting artifacts from source files")
	builder := catalog.NewBuilder(catalog.Config{
		IncludeSystemHeaders: opts.reportSystemHeaders,
		MergeDuplicates:      opts.ignoreMultipleDeclarations,
	}, rules)

	var provider source.Provider = source.TreeSitterProvider{}
	for _, command := range commands {
		if rules.FileSuppressed(command.Path()) {
			continue
		}
		literals, err := provider.Literals(ctx, command)
		if err != nil {
			// one unparsable translation unit aborts the whole run
			return fmt.Errorf("failed to parse source file %q: %w", command.Path(), err)
		}
		builder.Add(ctx, literals...)
	}

	slog.InfoContext(ctx, "looking for leaks", "binary", opts.binaryPath)
	confirmedLeaks, err := scanner.Scan(ctx, builder.Leaks())
	if err != nil {
		return err
	}

	leaks := report.Assemble(confirmedLeaks)
	switch {
	case opts.cyclonedxOutput:
		return report.WriteCycloneDX(os.Stdout, leaks)
	case opts.jsonOutput:
		return report.WriteJSON(os.Stdout, leaks)
	default:
		return report.WriteText(os.Stdout, leaks)
	}
}

// database selects the compile-command sourcing strategy once: a structured
// compilation database when --project is given, otherwise the positional
// source globs with arguments built from -I and -D.
func database(ctx context.Context, globs []string) (compiledb.Database, error) {
	if opts.projectPath != "" {
		return compiledb.NewCompileCommandsDatabase(opts.projectPath)
	}

	files := compiledb.ExpandSourceGlobs(ctx, globs)
	arguments := make([]string, 0, len(opts.includeDirs)+len(opts.definitions))
	for _, dir := range opts.includeDirs {
		arguments = append(arguments, "-I"+dir)
	}
	for _, definition := range opts.definitions {
		arguments = append(arguments, "-D"+definition)
	}
	return compiledb.NewFileListDatabase(files, arguments), nil
}
