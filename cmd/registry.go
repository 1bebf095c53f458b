package cmd

import (
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"multiplot.GO/core/registry"
)

var cmdMu sync.Mutex

// Register adds a top-level command. Call from init(); built-in commands go
// through here too, so a name clash with plots:* or cron:start is caught.
// Panics if the registry is locked or the name is taken.
func Register(c *cobra.Command) {
	cmdMu.Lock()
	defer cmdMu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	name := c.Name()
	if name == "" {
		panic("cmd/registry: command has no name")
	}
	cmds := getCommands()
	if _, ok := cmds[name]; ok {
		panic("cmd/registry: duplicate command " + name)
	}
	cmds[name] = c
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, cmds)
}

func getCommands() map[string]*cobra.Command {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		return v.(map[string]*cobra.Command)
	}
	return make(map[string]*cobra.Command)
}

func sortedNames(cmds map[string]*cobra.Command) []string {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Names returns the registered command names, sorted.
func Names() []string {
	cmdMu.Lock()
	defer cmdMu.Unlock()
	return sortedNames(getCommands())
}

// Apply adds all registered commands to the root command in name order and
// locks the registry. Commands already attached are skipped.
func Apply() {
	applyTo(rootCmd)
}

func applyTo(root *cobra.Command) {
	cmdMu.Lock()
	defer cmdMu.Unlock()
	cmds := getCommands()
	for _, name := range sortedNames(cmds) {
		if c := cmds[name]; !c.HasParent() {
			root.AddCommand(c)
		}
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
	}
}
