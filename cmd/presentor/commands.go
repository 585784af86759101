package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the default storage root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.resolver.DefaultRoot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [root]",
		Short: "List presentation documents (creates the root if missing)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.rootOrDefault(args)
			if err != nil {
				return err
			}
			entries, err := a.presentations.List(root)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <path>",
		Short: "Print a presentation document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.presentations.Read(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Write a presentation document from --file or stdin, replacing any existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if fromFile != "" {
				content, err = os.ReadFile(fromFile)
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}
			return a.presentations.Save(args[0], string(content))
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read content from this file instead of stdin")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a presentation document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.presentations.Delete(args[0])
		},
	}
}

func newImportImageCmd(a *app) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "import-image <source>",
		Short: "Copy an image into <root>/images and print its stored file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storageDir, err := a.rootOrDefault([]string{root})
			if err != nil {
				return err
			}
			name, err := a.images.Import(storageDir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Storage root (defaults to the configured root)")
	return cmd
}

func newListImagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-images [root]",
		Short: "List image assets under <root>/images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.rootOrDefault(args)
			if err != nil {
				return err
			}
			entries, err := a.images.List(root)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func newDeleteImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-image <path>",
		Short: "Delete an image asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.images.Delete(args[0])
		},
	}
}
