package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func NewGenDocsCommand() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Generate reference docs for every command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true
			switch format {
			case "markdown", "md":
				err = doc.GenMarkdownTree(root, dir)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{Title: "SCHEDULEEASE", Section: "1"}, dir)
			case "yaml":
				err = doc.GenYamlTree(root, dir)
			default:
				return fmt.Errorf("unknown format %q (markdown, man, yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("generate %s docs: %w", format, err)
			}

			cmd.Printf("%s docs written to %s\n", format, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "docs/cli", "Output directory")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown, man or yaml")
	return cmd
}
