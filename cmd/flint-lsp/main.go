// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"flint/internal/config"
	"flint/internal/lsp"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "flint" // Name identifier for the language server

var log = commonlog.GetLogger("flint.lsp.server")

func main() {
	var configPath string
	var verbosity int

	cmd := &cobra.Command{
		Use:           "flint-lsp",
		Short:         "Flint language server publishing verification results",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr; stdout carries the protocol.
			commonlog.Configure(verbosity, nil)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")

	if err := cmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	flintHandler := lsp.NewFlintHandler(cfg, nil)

	handler := protocol.Handler{
		Initialize:                     flintHandler.Initialize,
		Initialized:                    flintHandler.Initialized,
		Shutdown:                       flintHandler.Shutdown,
		SetTrace:                       flintHandler.SetTrace,
		TextDocumentDidOpen:            flintHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           flintHandler.TextDocumentDidClose,
		TextDocumentDidChange:          flintHandler.TextDocumentDidChange,
		TextDocumentDidSave:            flintHandler.TextDocumentDidSave,
		TextDocumentSemanticTokensFull: flintHandler.TextDocumentSemanticTokensFull,
	}

	// Parameters: the protocol handler, the server name, and no internal glsp debug logs
	s := server.NewServer(&handler, lsName, false)

	log.Info("starting Flint LSP server")
	return s.RunStdio()
}
