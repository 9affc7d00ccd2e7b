package compiler

import (
	"os"
	"strings"
	"sync"
)

// Flags is the parsed form of ORC_CODE: a comma-separated list of flag
// names. "backup" disables compilation when a program
// carries a backup function; "debug" enables verbose compile-time
// logging.
type Flags struct {
	Backup bool
	Debug  bool
	names  map[string]bool
}

// Check reports whether name was present in ORC_CODE.
func (f Flags) Check(name string) bool {
	return f.names[name]
}

// ParseFlags splits a comma-separated flag list the way ORC_CODE is
// formatted. It is a pure function so tests can exercise flag parsing
// without mutating the process environment.
func ParseFlags(envvar string) Flags {
	f := Flags{names: map[string]bool{}}
	if envvar == "" {
		return f
	}
	for _, name := range strings.Split(envvar, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f.names[name] = true
	}
	f.Backup = f.names["backup"]
	f.Debug = f.names["debug"]
	return f
}

var (
	processFlagsOnce sync.Once
	processFlags     Flags
)

// ProcessFlags returns the flags parsed from the process's ORC_CODE
// environment variable, parsed exactly once and treated as immutable
// afterward.
func ProcessFlags() Flags {
	processFlagsOnce.Do(func() {
		processFlags = ParseFlags(os.Getenv("ORC_CODE"))
	})
	return processFlags
}
