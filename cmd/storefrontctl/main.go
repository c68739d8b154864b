/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Command storefrontctl calls the storefront backend API through the caching,
// deduplicating and retrying API client. It's used for smoke checks and for keeping a shared
// (Redis) response cache warm.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MartinBugar/martyx-industries-fe-sub001/internal/libinfo"
)

// version may be set at build time with -ldflags "-X main.version=...".
var version = ""

func appVersion() string {
	if version != "" {
		return version
	}
	return libinfo.GetLibVersion()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	language   string
	token      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Storefront API client",
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to YAML or JSON config file (values may be overridden by "+envVarsPrefix+"_* environment variables)")
	root.PersistentFlags().StringVarP(&opts.language, "lang", "l", "", "language of the responses")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(envVarsPrefix+"_TOKEN"), "access token of the user")

	root.AddCommand(
		newProductsCmd(opts),
		newLocalesCmd(opts),
		newRequestCmd(opts),
		newWarmCmd(opts),
	)
	return root
}
