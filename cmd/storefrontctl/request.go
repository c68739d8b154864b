/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/storefront"
)

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		body    string
		cache   bool
		noRetry bool
		headers map[string]string
	)
	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Perform an arbitrary API call and print the JSON response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqOpts := []apiclient.RequestOption{apiclient.WithRequestType("cli")}
			if cmd.Flags().Changed("cache") {
				reqOpts = append(reqOpts, apiclient.WithCache(cache))
			}
			if noRetry {
				reqOpts = append(reqOpts, apiclient.WithRetry(false))
			}
			for name, value := range headers {
				reqOpts = append(reqOpts, apiclient.WithHeader(name, value))
			}
			var reqBody interface{}
			if body != "" {
				if !json.Valid([]byte(body)) {
					return fmt.Errorf("--body must be a valid JSON")
				}
				reqBody = json.RawMessage(body)
			}

			a, err := newApp(opts, storefront.Opts{})
			if err != nil {
				return err
			}
			defer a.close()
			data, err := a.sf.API.Request(cmd.Context(), a.sf.API.NewRequestDescriptor(args[0], args[1], reqBody, reqOpts...))
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return nil
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVarP(&body, "body", "d", "", "JSON request body")
	cmd.Flags().BoolVar(&cache, "cache", false, "cache the response (GET only)")
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "disable retrying of failed attempts")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "additional request headers (name=value)")
	return cmd
}
