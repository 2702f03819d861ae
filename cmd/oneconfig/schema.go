package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/cli"
	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/pkg/ports"
	"github.com/oneconfig/oneconfig/pkg/registry"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage named schemas in a store",
	Long: `Saves, inspects and removes named schemas in a configured store. The
file store is the default; pass --store redis to manage a shared one.`,
}

var schemaSaveCmd = &cobra.Command{
	Use:   "save <name> <schema.yaml>",
	Short: "Validate and store a schema under a name",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := os.ReadFile(args[1])
		if err != nil {
			fail(err)
		}
		withRegistry(cmd, func(reg *registry.Registry) error {
			return reg.Save(cmd.Context(), args[0], src)
		})
		fmt.Printf("Schema %q saved ✅\n", args[0])
	},
}

var schemaGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored schema source",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withRegistry(cmd, func(reg *registry.Registry) error {
			src, err := reg.Source(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(string(src))
			return nil
		})
	},
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored schema names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withRegistry(cmd, func(reg *registry.Registry) error {
			names, err := reg.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var schemaDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored schema",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withRegistry(cmd, func(reg *registry.Registry) error {
			return reg.Delete(cmd.Context(), args[0])
		})
		fmt.Printf("Schema %q deleted\n", args[0])
	},
}

var schemaLintCmd = &cobra.Command{
	Use:   "lint <schema.yaml>",
	Short: "Check that a schema compiles",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := os.ReadFile(args[0])
		if err != nil {
			fail(err)
		}
		if _, err := oneconfig.NewChecker(src); err != nil {
			fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema is valid ✅")
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaSaveCmd, schemaGetCmd, schemaListCmd, schemaDeleteCmd, schemaLintCmd)

	schemaCmd.PersistentFlags().String("store", "file", "Schema store backend: file or redis")
	schemaCmd.PersistentFlags().String("dir", "", `Directory for the file store (default ".oneconfig/schemas")`)
	schemaCmd.PersistentFlags().String("redis-addr", "", "Redis address (host:port) for the redis store")
	schemaCmd.PersistentFlags().String("redis-password", "", "Redis password")
	schemaCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
}

// withRegistry runs fn against a registry over the store the flags select.
// Any error terminates the command.
func withRegistry(cmd *cobra.Command, fn func(*registry.Registry) error) {
	store, cleanup, err := storeFromFlags(cmd)
	if err != nil {
		fail(err)
	}
	defer func() { _ = cleanup() }()

	if err := fn(registry.New(store)); err != nil {
		fail(err)
	}
}

func storeFromFlags(cmd *cobra.Command) (ports.SchemaStore, func() error, error) {
	storeName, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("dir")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	redisPassword, _ := cmd.Flags().GetString("redis-password")
	redisDB, _ := cmd.Flags().GetInt("redis-db")

	return cli.BuildStore(cli.StoreOptions{
		Store:         storeName,
		Dir:           dir,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
	}, logging.NewNop())
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
