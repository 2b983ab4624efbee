package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studymind/studymind/internal/config"
	"github.com/studymind/studymind/internal/memory"
)

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- tones ---

var tonesCmd = &cobra.Command{
	Use:   "tones",
	Short: "List available response tones",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range memory.AvailableTones() {
			fmt.Printf("  %s — %s\n", colorize(colorBold, t.Name), t.Description)
		}
		return nil
	},
}

// --- memory ---

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage per-user memory",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's stored profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/memory/"+args[0])
		if err != nil {
			return err
		}

		var profile any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

var memoryContextCmd = &cobra.Command{
	Use:   "context <user-id>",
	Short: "Show the rendered context string for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/memory/"+args[0]+"/context")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result["context"] == "" {
			printWarning("no stored context for %s", args[0])
			return nil
		}
		fmt.Println(result["context"])
		return nil
	},
}

var memorySetToneCmd = &cobra.Command{
	Use:   "set-tone <user-id> <tone>",
	Short: "Set a user's preferred response tone",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/memory/"+args[0]+"/tone", map[string]string{"tone": args[1]})
		if err != nil {
			return err
		}

		var profile any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		printSuccess("Tone for %s set to %s", args[0], args[1])
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear <user-id>",
	Short: "Delete a user's stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/memory/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Cleared memory for %s", args[0])
		return nil
	},
}

func init() {
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memoryContextCmd)
	memoryCmd.AddCommand(memorySetToneCmd)
	memoryCmd.AddCommand(memoryClearCmd)
}
