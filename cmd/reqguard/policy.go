package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/abczzz13/reqguard/config"
	"github.com/abczzz13/reqguard/corspolicy"
)

var policyCmd = &cobra.Command{
	Use:   "policy <name>",
	Short: "Print the resolved CORS policy for a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

type policyView struct {
	Name           string   `json:"name"`
	DefaultDeny    bool     `json:"default_deny"`
	AllowAnyOrigin bool     `json:"allow_any_origin"`
	Origins        []string `json:"origins"`
	AllowAnyMethod bool     `json:"allow_any_method"`
	Methods        []string `json:"methods"`
	AllowAnyHeader bool     `json:"allow_any_header"`
	Headers        []string `json:"headers"`
	ExposedHeaders []string `json:"exposed_headers"`
}

func newPolicyView(name string, p corspolicy.Policy) policyView {
	nonNil := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return policyView{
		Name:           name,
		DefaultDeny:    p.IsDefaultDeny(),
		AllowAnyOrigin: p.AllowAnyOrigin(),
		Origins:        nonNil(p.Origins()),
		AllowAnyMethod: p.AllowAnyMethod(),
		Methods:        nonNil(p.Methods()),
		AllowAnyHeader: p.AllowAnyHeader(),
		Headers:        nonNil(p.Headers()),
		ExposedHeaders: nonNil(p.ExposedHeaders()),
	}
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}

	name := args[0]
	p := corspolicy.FromEntries(cfg.Policies).Lookup(name)
	if _, err := corspolicy.Middleware(p); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(newPolicyView(name, p))
}
