package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

// ListingDoc is the searchable projection of a marketplace listing joined
// with its product.
type ListingDoc struct {
	ListingID   uint   `json:"listingId"`
	ProductID   uint   `json:"productId"`
	VendorID    uint   `json:"vendorId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	IsActive    bool   `json:"isActive"`
}

type ListingIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *ListingIndex) IndexListing(ctx context.Context, doc ListingDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(ix.Index, bytes.NewReader(body),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ListingID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index listing %d: %w", doc.ListingID, err)
	}
	return checkResponse(res, "index listing")
}

func (ix *ListingIndex) DeleteListing(ctx context.Context, id uint) error {
	res, err := ix.ES.Delete(ix.Index, strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete listing")
}

// DeleteProductListings removes every listing document of productID.
func (ix *ListingIndex) DeleteProductListings(ctx context.Context, productID uint) error {
	var buf bytes.Buffer
	query := map[string]any{"query": map[string]any{"term": map[string]any{"productId": productID}}}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return err
	}
	res, err := ix.ES.DeleteByQuery([]string{ix.Index}, &buf,
		ix.ES.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete listings of product %d: %w", productID, err)
	}
	return checkResponse(res, "delete product listings")
}

// SearchListings returns the total hit count and the listing ids of the
// requested page, best match first.
func (ix *ListingIndex) SearchListings(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(listingQuery(query, from, size)); err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search listings: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search listings: %s: %s", res.Status(), body)
	}

	return decodeHits(res.Body)
}

func listingQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description", "sku"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"isActive": true},
				},
			},
		},
		"from": from,
		"size": size,
	}
}

func decodeHits(r io.Reader) (int64, []uint, error) {
	var body struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ListingDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, len(body.Hits.Hits))
	for i, hit := range body.Hits.Hits {
		ids[i] = hit.Source.ListingID
	}
	return body.Hits.Total.Value, ids, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: %s: %s", op, res.Status(), body)
	}
	return nil
}
