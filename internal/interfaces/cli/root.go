// Package cli comandos de línea para remisiones: exportar PDF/XML, verificar el digest
// de un XML exportado, consultar el historial y ejecutar un flujo de demostración.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Distribucion-api/internal/wire"
	"github.com/jhoicas/Distribucion-api/pkg/config"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// NewRootCmd arma el árbol de comandos.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "transmittal",
		Short:         "Herramientas de remisión para distribuciones de documentos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(pdfCmd())
	root.AddCommand(xmlCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(demoCmd())
	return root
}

// session almacenamiento y casos de uso abiertos desde la configuración del entorno.
type session struct {
	storage  *wire.Storage
	services *wire.Services
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr}).Component("cli")
	st, err := wire.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{storage: st, services: wire.NewServices(st, cfg, nil, log)}, nil
}

func (s *session) Close() { s.storage.Close() }

func printf(w io.Writer, c *color.Color, format string, args ...any) {
	_, _ = c.Fprintf(w, format, args...)
}
