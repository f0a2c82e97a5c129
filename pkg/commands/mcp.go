package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/mcp"
)

func addMCP(topLevel *cobra.Command, o *options) {
	var (
		transport = string(mcp.TransportStdio)
		addr      string
		path      = "/mcp"
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the agenda to assistants over the Model Context Protocol.",
		Example: `
daybook mcp
daybook mcp --transport http --addr 127.0.0.1:8080
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = o.cfg.MCP.Addr
			}
			out := cmd.OutOrStdout()
			r := mcp.Runner{
				App:              svc,
				Log:              o.log,
				Name:             "daybook",
				Version:          Version,
				Transport:        mcp.Transport(strings.ToLower(transport)),
				HTTPListenAddr:   addr,
				HTTPEndpointPath: path,
				OnHTTPListening: func(a net.Addr) {
					fmt.Fprintf(out, "MCP server listening on http://%s%s\n", a.String(), path)
				},
			}
			return r.Do(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&transport, "transport", transport, "Transport: stdio or http.")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default mcp.addr from config).")
	cmd.Flags().StringVar(&path, "path", path, "HTTP endpoint path.")
	topLevel.AddCommand(cmd)
}
