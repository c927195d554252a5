package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"moonlabel.dev/internal/classify"
)

// newRootCommand builds the moonlabel command tree.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "moonlabel",
		Short: "Classify library classification codes",
		Long: `moonlabel classifies library classification codes as marked or plain
and extracts their numeric value, either for single values or for a whole
classification sheet.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("marker", classify.DefaultMarker, "Marker that classifies a code as marked")

	root.AddCommand(
		newClassifyCommand(),
		newLoadCommand(),
	)

	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
