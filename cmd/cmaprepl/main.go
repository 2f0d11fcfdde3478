// cmaprepl is an interactive shell over a live pkg/cmap.Map, for
// manual exercise of insert/get/remove/iterate/guard-hold semantics
// (spec.md §8 Scenario F: reference stability across a held Guard).
//
// Commands:
//
//	put <key> <value>     Insert or overwrite an entry
//	get <key>              Retrieve an entry by key
//	del <key>              Remove an entry
//	len                    Count live entries
//	iter                   List all live entries
//	hold                   Pin a long-lived guard for the rest of the session
//	release                Release the held guard, if any
//	bulk <count> [prefix]  Insert count sequential entries
//	bench <count>          Benchmark put+get performance
//	clear                  Remove every entry
//	help                   Show this help
//	exit / quit / q        Exit
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/epochmap/epochmap/pkg/cmap"
)

func main() {
	var initialCapacity int
	pflag.IntVar(&initialCapacity, "capacity", 16, "initial table capacity")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, "Usage: cmaprepl [flags]\n\nFlags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	r := &REPL{m: cmap.NewWithOptions[string, int](cmap.Options{InitialCapacity: initialCapacity})}
	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// REPL is a liner-driven command loop over a live Map. heldGuard, when
// non-nil, is a Guard kept pinned across commands by "hold" so the
// operator can observe that a value read under it survives a
// concurrent remove until "release" is issued.
type REPL struct {
	m         *cmap.Map[string, int]
	liner     *liner.State
	heldGuard *cmap.Guard
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cmaprepl_history")
}

func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if hf := historyFile(); hf != "" {
		if f, err := os.Open(hf); err == nil {
			_, _ = r.liner.ReadHistory(f)
			f.Close()
		}
	}
	defer r.saveHistory()

	fmt.Println("cmaprepl - type 'help' for commands")

	for {
		line, err := r.liner.Prompt("cmap> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		args := strings.Fields(line)
		cmd, rest := args[0], args[1:]

		switch cmd {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			r.printHelp()
		case "put":
			r.cmdPut(rest)
		case "get":
			r.cmdGet(rest)
		case "del", "delete":
			r.cmdDelete(rest)
		case "len", "count":
			r.cmdLen()
		case "iter", "scan", "ls":
			r.cmdIter()
		case "hold":
			r.cmdHold()
		case "release":
			r.cmdRelease()
		case "bulk":
			r.cmdBulk(rest)
		case "bench":
			r.cmdBench(rest)
		case "clear":
			r.cmdClear()
		default:
			fmt.Printf("unknown command %q; type 'help'\n", cmd)
		}
	}
}

func (r *REPL) saveHistory() {
	if hf := historyFile(); hf != "" {
		if f, err := os.Create(hf); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	cmds := []string{"put", "get", "del", "len", "iter", "hold", "release", "bulk", "bench", "clear", "help", "exit"}
	var out []string
	for _, c := range cmds {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func (r *REPL) printHelp() {
	fmt.Print(`Commands:
  put <key> <value>     Insert or overwrite an entry
  get <key>              Retrieve an entry by key
  del <key>              Remove an entry
  len                    Count live entries
  iter                   List all live entries
  hold                   Pin a long-lived guard for this session
  release                Release the held guard, if any
  bulk <count> [prefix]  Insert count sequential entries
  bench <count>          Benchmark put+get performance
  clear                  Remove every entry
  help                   Show this help
  exit / quit / q        Exit
`)
}

// withGuard runs fn with a guard: the held one, if "hold" was issued,
// or a fresh one released immediately after.
func (r *REPL) withGuard(fn func(g *cmap.Guard)) {
	if r.heldGuard != nil {
		fn(r.heldGuard)
		return
	}
	g := r.m.Guard()
	defer g.Release()
	fn(g)
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: put <key> <value>")
		return
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("invalid value: %v\n", err)
		return
	}
	r.withGuard(func(g *cmap.Guard) {
		old, had := r.m.Insert(args[0], v, g)
		if had {
			fmt.Printf("replaced %q: %d -> %d\n", args[0], old, v)
		} else {
			fmt.Printf("inserted %q: %d\n", args[0], v)
		}
	})
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: get <key>")
		return
	}
	r.withGuard(func(g *cmap.Guard) {
		v, ok := r.m.Get(args[0], g)
		if !ok {
			fmt.Println("(not found)")
			return
		}
		fmt.Println(v)
	})
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: del <key>")
		return
	}
	r.withGuard(func(g *cmap.Guard) {
		v, ok := r.m.Remove(args[0], g)
		if !ok {
			fmt.Println("(not found)")
			return
		}
		fmt.Printf("removed %q: %d\n", args[0], v)
	})
}

func (r *REPL) cmdLen() {
	fmt.Println(r.m.Len())
}

func (r *REPL) cmdIter() {
	r.withGuard(func(g *cmap.Guard) {
		for _, kv := range r.m.Iter(g) {
			fmt.Printf("%s = %d\n", kv.Key, kv.Value)
		}
	})
}

func (r *REPL) cmdHold() {
	if r.heldGuard != nil {
		fmt.Println("already holding a guard")
		return
	}
	r.heldGuard = r.m.Guard()
	fmt.Println("guard pinned; values read from here on stay valid until 'release'")
}

func (r *REPL) cmdRelease() {
	if r.heldGuard == nil {
		fmt.Println("no guard held")
		return
	}
	r.heldGuard.Release()
	r.heldGuard = nil
	fmt.Println("guard released")
}

func (r *REPL) cmdClear() {
	r.withGuard(func(g *cmap.Guard) { r.m.Clear(g) })
	fmt.Println("cleared")
}

func (r *REPL) cmdBulk(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: bulk <count> [prefix]")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid count: %v\n", err)
		return
	}
	prefix := "k"
	if len(args) > 1 {
		prefix = args[1]
	}
	r.withGuard(func(g *cmap.Guard) {
		for i := 0; i < count; i++ {
			r.m.Insert(fmt.Sprintf("%s%d", prefix, i), i, g)
		}
	})
	fmt.Printf("inserted %d entries\n", count)
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: bench <count>")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid count: %v\n", err)
		return
	}

	g := r.m.Guard()
	defer g.Release()

	start := time.Now()
	for i := 0; i < count; i++ {
		r.m.Insert(fmt.Sprintf("bench%d", i), i, g)
	}
	insertElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < count; i++ {
		r.m.Get(fmt.Sprintf("bench%d", i), g)
	}
	getElapsed := time.Since(start)

	fmt.Printf("put: %d ops in %s (%.0f ops/ms)\n", count, insertElapsed, float64(count)/float64(insertElapsed.Milliseconds()+1))
	fmt.Printf("get: %d ops in %s (%.0f ops/ms)\n", count, getElapsed, float64(count)/float64(getElapsed.Milliseconds()+1))
}
