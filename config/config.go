// Package config loads vonsim settings from CUE files.
//
// A configuration file may set any of:
//
//	verbose:   true
//	scale:     0.5                       // pacing scale, 0 for no pauses
//	program:   ["MOV 1", "ADD 1", "JMP 1"]
//	listing:   "count.vn"                // listing to assemble
//	maxCycles: 100                       // cycle budget for a run
//
// Files are read in order, and each value set overrides earlier files.
package config

import (
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/ezrec/vonsim/cpu"
)

// Schema closes the set of fields a configuration file may set.
const Schema = `
verbose?:   bool
scale?:     number & >=0
program?:   [...string]
listing?:   string
maxCycles?: int & >=0
`

// Config is the simulator configuration.
type Config struct {
	Verbose   bool     // Verbose logging.
	Scale     float64  // Pacing scale; 0 disables pauses, 1 is nominal speed.
	Program   []string // Initial memory image.
	Listing   string   // Listing file to assemble, overrides Program.
	MaxCycles int      // Cycle budget for a run, 0 for none.
}

// Default returns the built-in configuration.
func Default() (cfg Config) {
	cfg = Config{
		Program: append([]string(nil), cpu.DefaultProgram...),
	}
	return
}

// Load reads configuration files over the defaults.
func Load(paths ...string) (cfg Config, err error) {
	cfg = Default()

	for _, path := range paths {
		var content []byte
		content, err = os.ReadFile(path)
		if err != nil {
			return
		}

		err = cfg.Merge(path, content)
		if err != nil {
			return
		}
	}

	return
}

// Merge validates CUE source against Schema, and applies the values it sets.
func (cfg *Config) Merge(filename string, src []byte) (err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{Path: filename, Err: err}
		}
	}()

	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + Schema + "})")
	err = schema.Err()
	if err != nil {
		return
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	err = value.Err()
	if err != nil {
		return
	}

	value = schema.Unify(value)
	err = value.Validate(cue.Concrete(true))
	if err != nil {
		return
	}

	if v := value.LookupPath(cue.ParsePath("verbose")); v.Exists() {
		cfg.Verbose, err = v.Bool()
		if err != nil {
			return
		}
	}

	if v := value.LookupPath(cue.ParsePath("scale")); v.Exists() {
		cfg.Scale, err = v.Float64()
		if err != nil {
			return
		}
	}

	if v := value.LookupPath(cue.ParsePath("program")); v.Exists() {
		var program []string
		err = v.Decode(&program)
		if err != nil {
			return
		}
		if len(program) > cpu.MEMORY_SIZE {
			err = cpu.ErrProgramTooLong
			return
		}
		cfg.Program = program
	}

	if v := value.LookupPath(cue.ParsePath("listing")); v.Exists() {
		cfg.Listing, err = v.String()
		if err != nil {
			return
		}
	}

	if v := value.LookupPath(cue.ParsePath("maxCycles")); v.Exists() {
		var cycles int64
		cycles, err = v.Int64()
		if err != nil {
			return
		}
		cfg.MaxCycles = int(cycles)
	}

	return
}
