package kv

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/store"
	"github.com/spf13/cobra"
	"sort"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return withStore(declaredKeys(key), func(_ *backend.Names, s *store.Store[string]) error {
				if _, err := s.Set(key, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "set successfully (backend=%s)\n", s.BackendName())
				return nil
			})
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return withStore(declaredKeys(key), func(_ *backend.Names, s *store.Store[string]) error {
				value, ok, err := s.Get(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=%v, value=%s\n", key, ok, value)
				return nil
			})
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Removes the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return withStore(declaredKeys(key), func(_ *backend.Names, s *store.Store[string]) error {
				if err := s.Remove(key); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed successfully")
				return nil
			})
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Prints all values of the declared keys",
		Long:  "Prints all values of the declared keys. Without --keys, all keys of the selected backend are dumped (if it can list its keys).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(declaredKeys(), func(names *backend.Names, s *store.Store[string]) error {
				if len(s.Keys()) == 0 {
					keys, err := listKeys(s.Backend())
					if err != nil {
						return err
					}
					if _, err := s.DeclareKeys(keys...); err != nil {
						return err
					}
				}

				values, err := s.Snapshot()
				if err != nil {
					return err
				}

				keys := make([]string, 0, len(values))
				for key := range values {
					keys = append(keys, key)
				}
				sort.Strings(keys)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "backend=%s, values=%d\n", s.BackendName(), len(values))
				for _, key := range keys {
					fmt.Fprintf(out, "%s=%s\n", key, values[key])
				}
				return nil
			})
		},
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate [backend...]",
		Short: "Moves the values of the declared keys to another backend",
		Long:  "Moves the values of the keys given with --keys from the first usable backend of --backends to the first usable backend given as argument.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := declaredKeys()
			if len(keys) == 0 {
				return fmt.Errorf("migrate needs the keys to move, use --keys")
			}

			return withStore(keys, func(_ *backend.Names, s *store.Store[string]) error {
				from := s.BackendName()
				err := s.SetBackend(backend.Candidates(args...)...)

				var migErr *store.MigrationError
				if errors.As(err, &migErr) {
					out := cmd.ErrOrStderr()
					fmt.Fprintf(out, "migration failed, %d values are stored in neither backend:\n", len(migErr.Pending))
					for _, entry := range migErr.Pending {
						fmt.Fprintf(out, "%s=%s\n", entry.Key, entry.Value)
					}
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "migrated %d keys from %s to %s\n", len(s.Keys()), from, s.BackendName())
				return nil
			})
		},
	}
)

// listKeys returns the keys of b, without probe leftovers
func listKeys(b backend.Backend) ([]string, error) {
	lister, ok := b.(backend.Lister)
	if !ok || !backend.Supports(b, backend.FeatureKeys) {
		return nil, fmt.Errorf("%w: backend can not list its keys, use --keys", backend.ErrMissingCapability)
	}

	all, err := lister.Keys()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(all))
	for _, key := range all {
		if !backend.IsProbeKey(key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
