// Package cliflag groups related pflag.FlagSets under named sections
// ("server", "broker", and so on) and can merge them, in registration
// order, into a single FlagSet. Merging keeps no section headings: a
// command's --help lists the merged flags as one list. This mirrors
// the NamedFlagSets convention used by Kubernetes-style API servers,
// which this repo's options types were already written against.
package cliflag

import (
	"sort"

	"github.com/spf13/pflag"
)

// NamedFlagSets stores a list of named flag sets, preserving the order
// in which FlagSet(name) was first called for each name.
type NamedFlagSets struct {
	// FlagSets is the set of flag sets, keyed by section name.
	FlagSets map[string]*pflag.FlagSet

	// Order preserves the sequence FlagSet was first called in.
	Order []string
}

// FlagSet returns the flag set for the given name, creating it (and
// recording its position in Order) on first use.
func (nfs *NamedFlagSets) FlagSet(name string) *pflag.FlagSet {
	if nfs.FlagSets == nil {
		nfs.FlagSets = map[string]*pflag.FlagSet{}
	}
	if _, ok := nfs.FlagSets[name]; !ok {
		fs := pflag.NewFlagSet(name, pflag.ExitOnError)
		nfs.FlagSets[name] = fs
		nfs.Order = append(nfs.Order, name)
	}
	return nfs.FlagSets[name]
}

// AddFlagSet merges every flag from every named set in nfs into fs, in
// nfs.Order, so a single cobra command can expose them all.
func (nfs *NamedFlagSets) AddFlagSet(fs *pflag.FlagSet) {
	for _, name := range nfs.Order {
		fs.AddFlagSet(nfs.FlagSets[name])
	}
}

// SortedSectionNames returns the section names in alphabetical order,
// for help text that doesn't need to preserve registration order.
func (nfs *NamedFlagSets) SortedSectionNames() []string {
	names := make([]string, 0, len(nfs.FlagSets))
	for name := range nfs.FlagSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
