package gadata

import (
	"context"
	"fmt"

	"ga-covid-server/api"
	"ga-covid-server/config"
)

// GaDataApiClient embeds the common HTTPClient and reads the published CSVs over HTTP
type GaDataApiClient struct {
	*api.HTTPClient
}

// NewGaDataApiClient creates a new instance of GaDataApiClient
func NewGaDataApiClient(httpClient *api.HTTPClient) *GaDataApiClient {
	return &GaDataApiClient{
		HTTPClient: httpClient,
	}
}

func (c *GaDataApiClient) FetchStatewide(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, config.STATEWIDE_RESOURCE)
}

func (c *GaDataApiClient) FetchCounties(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, config.COUNTIES_RESOURCE)
}

func (c *GaDataApiClient) FetchTable(ctx context.Context, table Table) ([]byte, error) {
	return c.fetch(ctx, config.TableResource(string(table)))
}

func (c *GaDataApiClient) fetch(ctx context.Context, resource string) ([]byte, error) {
	body, err := c.Fetch(ctx, "/"+resource)
	if err != nil {
		return nil, fmt.Errorf("[GaDataApiClient] failed to fetch %s: %w", resource, err)
	}
	return body, nil
}
