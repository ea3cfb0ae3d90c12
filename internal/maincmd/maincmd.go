package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/emberlang/ember/internal/config"
	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/machine"
)

const binName = "ember"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Runs a %[1]s script and reports its exit status: 0 on success, 65 on a
compile error, 70 on a runtime error.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --stress-gc               Collect on every allocation (for testing).

More information on the %[1]s repository:
       https://github.com/emberlang/ember
`, binName)
)

// Cmd is the process entry point's argument/flag holder. Main populates it
// with mainer.Parser, by reflection from the `flag` struct tags.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help     bool `flag:"h,help"`
	Version  bool `flag:"v,version"`
	StressGC bool `flag:"stress-gc"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one script path, got %d", len(c.args))
	}
	return nil
}

// Main parses flags, runs the requested script, and returns the process
// exit code: 0, 65 (CompileError) or 70 (RuntimeError), matching the
// driver contract the core interpreter is built against; 64 for invalid
// arguments and 74 when the script or the GC configuration cannot be read.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(64)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	_ = mainer.CancelOnSignal(context.Background(), os.Interrupt)

	source, err := os.ReadFile(c.args[0])
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.ExitCode(74)
	}

	gcCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.ExitCode(74)
	}

	collector := gc.New()
	collector.StressMode = c.StressGC || gcCfg.StressMode
	collector.HeapGrowFactor = gcCfg.HeapGrowFactor
	vm := machine.New(collector, stdio.Stdout, stdio.Stderr)

	switch vm.Interpret(string(source)) {
	case machine.InterpretOk:
		return mainer.Success
	case machine.InterpretCompileError:
		return mainer.ExitCode(65)
	default:
		return mainer.ExitCode(70)
	}
}
