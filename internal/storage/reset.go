package storage

import (
	"fmt"
	"sort"
)

// Reset writes every default into store, in name order. It stops at the
// first failing write.
func Reset(store Store, defaults map[string]bool) error {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := store.Set(name, defaults[name]); err != nil {
			return fmt.Errorf("reset %s: %w", name, err)
		}
	}
	return nil
}
