package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/notes"
	"github.com/zxiong/pulp/services"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read and write operator notes attached to a service",
}

var notesGetCmd = &cobra.Command{
	Use:   "get <service> <key>",
	Short: "Print the note stored under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServiceNotes(args[0], func(mapping notes.Mapping) error {
			value, err := mapping.Get(args[1])
			if err != nil {
				return err
			}

			fmt.Println(value)

			return nil
		})
	},
}

var notesSetCmd = &cobra.Command{
	Use:   "set <service> <key> <value>",
	Short: "Store a note under a key",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServiceNotes(args[0], func(mapping notes.Mapping) error {
			return mapping.Set(args[1], args[2])
		})
	},
}

var notesDelCmd = &cobra.Command{
	Use:   "del <service> <key>",
	Short: "Delete the note stored under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServiceNotes(args[0], func(mapping notes.Mapping) error {
			return mapping.Delete(args[1])
		})
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list <service>",
	Short: "List every note attached to a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServiceNotes(args[0], func(mapping notes.Mapping) error {
			items, err := mapping.Items()
			if err != nil {
				return err
			}

			for key, value := range items {
				fmt.Printf("%s=%s\n", key, value)
			}

			return nil
		})
	},
}

func withServiceNotes(serviceID string, do func(notes.Mapping) error) error {
	definition, err := services.Lookup(serviceID)
	if err != nil {
		return err
	}

	store, err := notes.Open(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return do(store.Notes(notes.ServiceOwner(definition.ID)))
}

func init() {
	notesCmd.AddCommand(notesGetCmd)
	notesCmd.AddCommand(notesSetCmd)
	notesCmd.AddCommand(notesDelCmd)
	notesCmd.AddCommand(notesListCmd)

	rootCmd.AddCommand(notesCmd)
}
