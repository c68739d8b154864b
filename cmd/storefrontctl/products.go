/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/MartinBugar/martyx-industries-fe-sub001/storefront"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Read the product catalog",
	}

	var filter storefront.ProductFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, storefront.Opts{})
			if err != nil {
				return err
			}
			defer a.close()
			list, err := a.sf.Products.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	listCmd.Flags().StringVar(&filter.Category, "category", "", "category of the products")
	listCmd.Flags().StringVarP(&filter.Query, "query", "q", "", "full-text query")
	listCmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	listCmd.Flags().IntVar(&filter.PageSize, "page-size", 0, "page size")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, storefront.Opts{})
			if err != nil {
				return err
			}
			defer a.close()
			product, err := a.sf.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), product)
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func newLocalesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "Read translation resources",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get LANG",
		Short: "Show translations for the language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, storefront.Opts{})
			if err != nil {
				return err
			}
			defer a.close()
			tr, err := a.sf.Locales.Translations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tr)
		},
	})
	return cmd
}
