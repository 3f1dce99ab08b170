package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"connectrpc.com/connect"
	"github.com/firebase/genkit/go/ai"
	"github.com/spf13/cobra"
	"github.com/va6996/agenttools/bootstrap"
	"github.com/va6996/agenttools/config"
	logcontext "github.com/va6996/agenttools/context"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/server"
)

type rootOptions struct {
	configPath string
	serverURL  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "toolctl",
		Short:         "List and invoke agent tools",
		Long:          `toolctl runs the agent tools in-process, or against a running server with --server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.serverURL, "server", "", "Base URL of a running tool server (e.g. http://localhost:8000)")

	root.AddCommand(newListCmd(opts), newInvokeCmd(opts), newAuditCmd(opts))
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if opts.serverURL != "" {
				client := server.NewListToolsClient(http.DefaultClient, strings.TrimRight(opts.serverURL, "/"))
				resp, err := client.CallUnary(ctx, connect.NewRequest(&server.ListToolsRequest{}))
				if err != nil {
					return fmt.Errorf("list tools failed: %w", err)
				}
				for _, t := range resp.Msg.Tools {
					fmt.Fprintf(out, "%s\t%s\n", t.Name, t.Description)
				}
				return nil
			}

			app, _, err := setupLocal(ctx, opts)
			if err != nil {
				return err
			}
			defs := make([]*ai.ToolDefinition, 0, len(app.Registry.GetTools()))
			for _, t := range app.Registry.GetTools() {
				defs = append(defs, t.Definition())
			}
			sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
			for _, d := range defs {
				fmt.Fprintf(out, "%s\t%s\n", d.Name, d.Description)
			}
			return nil
		},
	}
}

func newInvokeCmd(opts *rootOptions) *cobra.Command {
	var params, creds []string
	cmd := &cobra.Command{
		Use:   "invoke <tool-name>",
		Short: "Invoke a tool and print its response",
		Long: `Invoke a tool with parameters given as -p key=value and credentials as -c key=value.
Credentials default to the ones in the config (movies_api_key, api_key).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			parameters, err := parsePairs(params)
			if err != nil {
				return err
			}
			credentials, err := parsePairs(creds)
			if err != nil {
				return err
			}

			if opts.serverURL != "" {
				client := server.NewInvokeClient(http.DefaultClient, strings.TrimRight(opts.serverURL, "/"))
				req := &server.InvokeRequest{Tool: name, Parameters: toArgs(parameters), Credentials: credentials}
				resp, err := client.CallUnary(ctx, connect.NewRequest(req))
				if err != nil {
					return fmt.Errorf("invoke failed: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), resp.Msg.Data)
			}

			app, cfg, err := setupLocal(ctx, opts)
			if err != nil {
				return err
			}
			ctx = logcontext.WithRequestID(ctx, logcontext.NewRequestID())
			ctx = logcontext.WithCredentials(ctx, cfg.DefaultCredentials())
			ctx = logcontext.WithCredentials(ctx, credentials)

			resp, err := app.Registry.ExecuteTool(ctx, name, toArgs(parameters))
			if err != nil {
				return fmt.Errorf("invoke failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp.Data)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Tool parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&creds, "credential", "c", nil, "Credential as key=value (repeatable)")
	return cmd
}

func setupLocal(ctx context.Context, opts *rootOptions) (*bootstrap.App, *config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Init(cfg.Log.Level)

	app, err := bootstrap.Setup(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("setup failed: %w", err)
	}
	return app, cfg, nil
}

func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[key] = value
	}
	return out, nil
}

func toArgs(m map[string]string) map[string]interface{} {
	args := make(map[string]interface{}, len(m))
	for k, v := range m {
		args[k] = v
	}
	return args
}

func printJSON(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
