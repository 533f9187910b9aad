package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribucion-api/internal/wire"
	"github.com/jhoicas/Distribucion-api/pkg/config"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Recorre el flujo completo en memoria y escribe la remisión resultante",
		Long: `Crea una distribución de Contabilidad a Tesorería con los datos de demostración,
la lleva hasta completed con un documento reportado como dañado y escribe el PDF y el XML
de la remisión en el directorio indicado.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return runDemo(cmd.Context(), cmd.OutOrStdout(), dir)
		},
	}
	cmd.Flags().StringP("dir", "d", ".", "directorio de salida")
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store := memory.NewStore()
	memory.SeedDemo(store)
	cfg := &config.Config{App: config.AppConfig{Name: "Distribución de documentos"}}
	svc := wire.NewServices(wire.MemoryStorage(store), cfg, nil, logger.Nop())

	sender := entity.Actor{ID: "usr-ana", DepartmentID: "dep-contabilidad"}
	receiver := entity.Actor{ID: "usr-luis", DepartmentID: "dep-tesoreria"}

	res, err := svc.Compose.Create(ctx, sender, distribution.CreateInput{
		DocumentType:            entity.DocumentTypeInvoice,
		TypeID:                  "type-normal",
		OriginDepartmentID:      sender.DepartmentID,
		DestinationDepartmentID: receiver.DepartmentID,
		Notes:                   "Facturas del mes para pago",
		DocumentIDs:             []string{"inv-fe-1001"},
	})
	if err != nil {
		return fmt.Errorf("crear: %w", err)
	}
	d := res.Distribution
	printf(w, okColor, "Distribución %s creada ", d.Number)
	fmt.Fprintf(w, "con %d documento(s)\n", len(d.Documents))
	for _, warn := range res.Warnings {
		printf(w, warnColor, "  advertencia: ")
		fmt.Fprintln(w, warn.Message)
	}

	verified := make([]workflow.Verdict, 0, len(d.Documents))
	for _, l := range d.Documents {
		verified = append(verified, workflow.Verdict{DocumentType: l.DocumentType, DocumentID: l.DocumentID})
	}
	if d, err = svc.Workflow.VerifySender(ctx, sender, d.ID, verified, ""); err != nil {
		return fmt.Errorf("verificar remitente: %w", err)
	}
	if d, err = svc.Workflow.Send(ctx, sender, d.ID); err != nil {
		return fmt.Errorf("enviar: %w", err)
	}
	if d, err = svc.Workflow.Receive(ctx, receiver, d.ID); err != nil {
		return fmt.Errorf("recibir: %w", err)
	}

	receiverVerdicts := make([]workflow.Verdict, 0, len(d.Documents))
	for _, l := range d.Documents {
		v := workflow.Verdict{DocumentType: l.DocumentType, DocumentID: l.DocumentID}
		if l.AutoIncluded {
			v.Status = entity.VerificationDamaged
			v.Notes = "Llegó con la carátula rota"
		}
		receiverVerdicts = append(receiverVerdicts, v)
	}
	if _, err = svc.Workflow.VerifyReceiver(ctx, receiver, d.ID, receiverVerdicts, "", false); err != nil {
		printf(w, warnColor, "Confirmación requerida: ")
		fmt.Fprintln(w, err)
	}
	if d, err = svc.Workflow.VerifyReceiver(ctx, receiver, d.ID, receiverVerdicts, "Se confirma la novedad", true); err != nil {
		return fmt.Errorf("verificar receptor: %w", err)
	}
	if d, err = svc.Workflow.Complete(ctx, receiver, d.ID); err != nil {
		return fmt.Errorf("completar: %w", err)
	}

	entries, err := svc.Workflow.History(ctx, d.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	printHistory(w, entries)

	pdfBytes, pdfName, err := svc.Transmittal.DownloadPDF(ctx, d.ID)
	if err != nil {
		return err
	}
	xmlBytes, xmlName, digest, err := svc.Transmittal.ExportXML(ctx, d.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", dir, err)
	}
	for name, b := range map[string][]byte{pdfName: pdfBytes, xmlName: xmlBytes} {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", name, err)
		}
	}
	fmt.Fprintln(w)
	printf(w, okColor, "✓ ")
	fmt.Fprintf(w, "Remisión escrita en %s (%s, %s)\n  digest: %s\n", dir, pdfName, xmlName, digest)
	return nil
}
