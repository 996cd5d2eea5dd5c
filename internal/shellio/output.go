package shellio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
)

// Output is the single process-wide sink. Primary output (table, JSON) goes
// to stdout, status messages to stderr, directives to the wrapper's file.
// Command logic obtains writers from here and never inspects which mode is
// active.
type Output struct {
	mu        sync.Mutex
	primary   io.Writer
	status    io.Writer
	directive *directiveSink
	verbose   bool
}

// New builds an Output. directivePath may be empty, in which case directives
// are discarded and HasDirectives reports false.
func New(primary, status io.Writer, directivePath string, verbose bool) *Output {
	o := &Output{primary: primary, status: status, verbose: verbose}
	if strings.TrimSpace(directivePath) != "" {
		o.directive = &directiveSink{path: directivePath}
	}
	return o
}

// FromEnv wires the standard streams and the directive file named by
// WORKTRUNK_DIRECTIVE_FILE.
func FromEnv(verbose bool) *Output {
	return New(os.Stdout, os.Stderr, os.Getenv(DirectiveFileEnv), verbose)
}

// Primary exposes the primary sink for bulk writers (the renderer, JSON).
func (o *Output) Primary() io.Writer { return o.primary }

// Data writes one line of primary output.
func (o *Output) Data(line string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.primary, line)
	return err
}

// Statusf writes a status message to stderr.
func (o *Output) Statusf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.status, format+"\n", args...)
}

// Warnf writes a warning to stderr.
func (o *Output) Warnf(format string, args ...any) {
	o.Statusf("wt warning: "+format, args...)
}

// Hintf writes a usage hint to stderr. Hints are suppressed when the
// directive channel is active: wrapper users already have the integration
// the hint advertises.
func (o *Output) Hintf(format string, args ...any) {
	if o.HasDirectives() {
		return
	}
	o.Statusf("hint: "+format, args...)
}

// Verbosef writes a status message only in verbose mode.
func (o *Output) Verbosef(format string, args ...any) {
	if !o.verbose {
		return
	}
	o.Statusf(format, args...)
}

// Verbose reports whether verbose status output is enabled.
func (o *Output) Verbose() bool { return o.verbose }

// HasDirectives reports whether a directive file is wired.
func (o *Output) HasDirectives() bool { return o.directive != nil }

// ChangeDirectory asks the parent shell to cd into path. Without a
// directive file this is a no-op; callers fall back to printing the path or
// spawning a child process.
func (o *Output) ChangeDirectory(path string) error {
	if o.directive == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.directive.append("cd " + shellQuote(path))
}

// Execute asks the parent shell to run a command line after the binary
// exits. Directives are applied in the order written.
func (o *Output) Execute(command string) error {
	if o.directive == nil {
		return nil
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return errors.New("empty directive command")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.directive.append(command)
}

// IsBrokenPipe reports whether err is a broken-pipe write failure, which is
// treated as a clean shutdown (common with `wt list | head`).
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
