package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abczzz13/reqguard/clientaddr"
	"github.com/abczzz13/reqguard/config"
	"github.com/abczzz13/reqguard/ipfilter"
)

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Evaluate an address against the configured ip filter",
	Long: `check reports whether a direct caller with the given address would be
allowed through the ip filter. The address is compared to the configured
entries as an exact string, so entries that are not IP literals can be
checked too. Loopback addresses are always allowed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}

	result, err := checkAddress(cfg.IPList, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", args[0], result.Decision, result.Reason)
	return nil
}

// checkSource reports a fixed address, bypassing transport port handling so
// that the address is matched exactly as typed.
type checkSource string

func (checkSource) Name() string { return "check" }

func (s checkSource) Lookup(*http.Request) (string, bool) { return string(s), true }

func checkAddress(list ipfilter.List, address string) (ipfilter.Result, error) {
	if address == "" {
		return ipfilter.Result{}, errors.New("address must not be empty")
	}

	resolver, err := clientaddr.New(clientaddr.WithSources(checkSource(address)))
	if err != nil {
		return ipfilter.Result{}, err
	}

	guard, err := ipfilter.New(ipfilter.WithList(list), ipfilter.WithResolver(resolver))
	if err != nil {
		return ipfilter.Result{}, err
	}

	req := &http.Request{
		RemoteAddr: net.JoinHostPort(address, "0"),
		Header:     make(http.Header),
	}
	return guard.EvaluateDetail(req), nil
}
