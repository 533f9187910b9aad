package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Distribucion-api/internal/infrastructure/xmlexport"
)

func pdfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf <distribution-id>",
		Short: "Genera el PDF de remisión de una distribución",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			b, name, err := s.services.Transmittal.DownloadPDF(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			printf(cmd.OutOrStdout(), okColor, "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "PDF escrito en %s (%d bytes)\n", out, len(b))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "archivo de salida (por defecto remision_<número>.pdf)")
	return cmd
}

func xmlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xml <distribution-id>",
		Short: "Exporta la remisión en XML e imprime su digest SHA-256 canónico",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			b, name, digest, err := s.services.Transmittal.ExportXML(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			printf(cmd.OutOrStdout(), okColor, "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "XML escrito en %s\n  digest: %s\n", out, digest)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "archivo de salida (por defecto remision_<número>.xml)")
	return cmd
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <archivo.xml>",
		Short: "Comprueba que un XML de remisión conserva el digest con el que se exportó",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, _ := cmd.Flags().GetString("digest")
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer %s: %w", args[0], err)
			}
			actual, err := xmlexport.DocumentDigest(data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if expected == "" {
				fmt.Fprintln(w, actual)
				return nil
			}
			if actual != expected {
				printf(w, failColor, "ALTERADO ")
				fmt.Fprintf(w, "digest esperado %s, calculado %s\n", expected, actual)
				return fmt.Errorf("el digest de %s no coincide", args[0])
			}
			printf(w, okColor, "OK ")
			fmt.Fprintf(w, "%s conserva su digest\n", args[0])
			return nil
		},
	}
	cmd.Flags().String("digest", "", "digest esperado (base64); vacío = solo imprimir el calculado")
	return cmd
}
