package kv

import (
	"github.com/ValentinKolb/nsKV/cmd/util"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/registry"
	"github.com/ValentinKolb/nsKV/lib/store"
	"github.com/ValentinKolb/nsKV/lib/transform"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Perform store operations on string values",
		Long: `Perform store operations on string values.

Every command creates a store that declares the keys given with --keys (or the
key arguments if --keys is empty) and selects the first usable backend of
--backends. Available backends are 'session' (memory), 'local' (sqlite), 'disk'
and 'remote' (an nskv server, see --remote-endpoints).`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add backend flags to the KV command
	util.SetupBackendFlags(KeyValueCommands)

	key := "keys"
	KeyValueCommands.PersistentFlags().String(key, "", util.WrapString("Comma-separated keys declared by the store. Defaults to the keys given as arguments"))

	key = "backends"
	KeyValueCommands.PersistentFlags().String(key, "local,disk,session", util.WrapString("Comma-separated backend candidates in order of preference"))

	key = "compress"
	KeyValueCommands.PersistentFlags().Bool(key, false, util.WrapString("Compress values with zstd before storing them"))

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(dumpCmd)
	KeyValueCommands.AddCommand(migrateCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// declaredKeys returns the keys of the --keys flag, or fallback if the flag is empty
func declaredKeys(fallback ...string) []string {
	if keys := util.SplitList(viper.GetString("keys")); len(keys) > 0 {
		return keys
	}
	return fallback
}

// candidates returns the backend candidates of the --backends flag
func candidates() []backend.Candidate {
	return backend.Candidates(util.SplitList(viper.GetString("backends"))...)
}

// transformer returns the string transformer selected by the --compress flag
func transformer() transform.Transformer[string] {
	if viper.GetBool("compress") {
		return transform.Zstd(transform.IdentityString())
	}
	return transform.IdentityString()
}

// withStore registers the configured backends, creates a store declaring keys
// and calls fn with it. All backends are closed when fn returns.
func withStore(keys []string, fn func(names *backend.Names, s *store.Store[string]) error) error {
	names := backend.NewNames()
	closeAll, err := util.RegisterBackends(names)
	defer closeAll()
	if err != nil {
		return err
	}

	s, err := store.New[string](keys,
		store.WithTransformer(transformer()),
		store.WithBackends[string](candidates()...),
		store.WithNames[string](names),
		store.WithRegistry[string](registry.New()),
	)
	if err != nil {
		return err
	}
	return fn(names, s)
}
