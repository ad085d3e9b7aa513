// Command pogen-mcp is an MCP (Model Context Protocol) server that renders
// purchase orders for AI assistants.
//
// # Configuration for desktop clients
//
//	{
//	  "mcpServers": {
//	    "pogen": {
//	      "command": "pogen-mcp",
//	      "args": ["--config", "/path/to/pogen.yaml"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - render_purchase_order: render a record as PDF, base64 or to a file
//   - extract_pdf_text: list the text drawn on each page of a PDF
//
// # Available Resources
//
//   - pogen://styles : the resolved style sheet
//   - pogen://sample-record : a record accepted by render_purchase_order
//
// Logs go to stderr; stdout carries the protocol.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/config"
	"github.com/kovanlabs/pogen/mcp"
)

func main() {
	app := &cli.App{
		Name:  "pogen-mcp",
		Usage: "serve purchase order rendering over MCP on stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "configuration file; built-in defaults apply when it does not exist",
				EnvVars: []string{"POGEN_CONFIG"},
			},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.LoadOrDefault(cCtx.String("config"))
			if err != nil {
				return err
			}
			log, err := cfg.Logger(os.Stderr)
			if err != nil {
				return err
			}

			composer := pogen.New(append(cfg.ComposerOptions(), pogen.WithLogger(log))...)
			server := mcp.NewServer(log)
			mcp.RegisterDefaultTools(server, composer)
			mcp.RegisterDefaultResources(server, nil)
			return server.Run()
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pogen-mcp: %v\n", err)
		os.Exit(1)
	}
}
