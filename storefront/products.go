/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"context"
	"net/url"
	"strconv"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
)

const productsRequestType = "products"

// Product is a catalog item.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Images      []string `json:"images,omitempty"`
	ModelURL    string   `json:"modelUrl,omitempty"`
	InStock     bool     `json:"inStock"`
}

// ProductFilter narrows the product list.
type ProductFilter struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

func (f ProductFilter) values() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return v
}

// ProductList is a page of products.
type ProductList struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

// Products reads the catalog. Responses are cached.
type Products struct {
	api *apiclient.Client
}

// NewProducts creates a new Products service.
func NewProducts(api *apiclient.Client) *Products {
	return &Products{api: api}
}

// List returns products matching the filter.
func (p *Products) List(ctx context.Context, filter ProductFilter) (*ProductList, error) {
	target := "/products"
	if q := filter.values().Encode(); q != "" {
		target += "?" + q
	}
	var list ProductList
	if err := p.api.Get(ctx, target, &list,
		apiclient.WithCache(true), apiclient.WithRequestType(productsRequestType)); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get returns a single product.
func (p *Products) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := p.api.Get(ctx, "/products/"+url.PathEscape(id), &product,
		apiclient.WithCache(true), apiclient.WithRequestType(productsRequestType)); err != nil {
		return nil, err
	}
	return &product, nil
}
