package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <distribution-id>",
		Short: "Muestra la línea de tiempo de una distribución",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.services.Workflow.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func printHistory(w io.Writer, entries []*entity.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Sin entradas en el historial.")
		return
	}
	for _, e := range entries {
		printf(w, dimColor, "%s ", e.CreatedAt.Local().Format(time.DateTime))
		c := okColor
		if e.Discrepancy {
			c = warnColor
		}
		printf(w, c, "%-18s", e.Action)
		fmt.Fprintf(w, " %s", e.Description)
		if e.ActorID != "" {
			printf(w, dimColor, " [%s]", e.ActorID)
		}
		fmt.Fprintln(w)
		if e.Notes != "" {
			fmt.Fprintf(w, "    notas: %s\n", e.Notes)
		}
	}
}
