// Package compiledb sources the ordered sequence of compiler invocations
// used to parse each translation unit. Two interchangeable strategies exist:
// a compile_commands.json database, or an explicit file list with uniform
// extra arguments. One is selected at startup and never mixed with the other.
package compiledb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/shlex"
)

// CompileCommand is one compiler invocation record.
type CompileCommand struct {
	Directory string
	Filename  string
	Arguments []string
}

// Path returns the full path of the translation unit.
func (c CompileCommand) Path() string {
	if c.Directory == "" || filepath.IsAbs(c.Filename) {
		return c.Filename
	}
	return filepath.Join(c.Directory, c.Filename)
}

// Database yields compile commands in a stable order.
type Database interface {
	CompileCommands() ([]CompileCommand, error)
}

// jsonEntry mirrors one compile_commands.json record. Either arguments or a
// shell-quoted command is present, clang tooling emits both variants.
type jsonEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
}

// CompileCommandsDatabase reads records from a compile_commands.json file.
type CompileCommandsDatabase struct {
	commands []CompileCommand
}

func NewCompileCommandsDatabase(path string) (*CompileCommandsDatabase, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading compilation database: %w", err)
	}

	var entries []jsonEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parsing compilation database %s: %w", path, err)
	}

	commands := make([]CompileCommand, 0, len(entries))
	for _, entry := range entries {
		args := entry.Arguments
		if len(args) == 0 && entry.Command != "" {
			args, err = shlex.Split(entry.Command)
			if err != nil {
				return nil, fmt.Errorf("parsing command %q in %s: %w", entry.Command, path, err)
			}
		}
		commands = append(commands, CompileCommand{
			Directory: entry.Directory,
			Filename:  entry.File,
			Arguments: args,
		})
	}
	return &CompileCommandsDatabase{commands: commands}, nil
}

func (d *CompileCommandsDatabase) CompileCommands() ([]CompileCommand, error) {
	return d.commands, nil
}

// FileListDatabase builds commands from an explicit file list, every file
// sharing the same argument vector.
type FileListDatabase struct {
	files []string
	args  []string
}

func NewFileListDatabase(files, args []string) *FileListDatabase {
	return &FileListDatabase{files: files, args: args}
}

func (d *FileListDatabase) CompileCommands() ([]CompileCommand, error) {
	commands := make([]CompileCommand, 0, len(d.files))
	for _, file := range d.files {
		commands = append(commands, CompileCommand{
			Filename:  file,
			Arguments: d.args,
		})
	}
	return commands, nil
}

// ExpandSourceGlobs resolves source path patterns into concrete file paths,
// preserving pattern order. An invalid pattern is logged and skipped, it
// never aborts the run.
func ExpandSourceGlobs(ctx context.Context, patterns []string) []string {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			slog.WarnContext(ctx, "not a valid path or glob expression, ignoring it",
				"pattern", pattern, "error", err)
			continue
		}
		files = append(files, matches...)
	}
	return files
}
