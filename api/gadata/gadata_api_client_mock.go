package gadata

import (
	"context"
	"fmt"
	"path/filepath"

	"ga-covid-server/config"
	"ga-covid-server/util"
)

// GaDataApiClientMock reads the canonical CSVs from a local resources directory.
// It backs DATA_SOURCE=local and the tests.
type GaDataApiClientMock struct {
	dir string
}

// NewGaDataApiClientMock creates a new instance of GaDataApiClientMock over dir
func NewGaDataApiClientMock(dir string) *GaDataApiClientMock {
	return &GaDataApiClientMock{dir: dir}
}

func (c *GaDataApiClientMock) FetchStatewide(ctx context.Context) ([]byte, error) {
	return c.read(ctx, config.STATEWIDE_RESOURCE)
}

func (c *GaDataApiClientMock) FetchCounties(ctx context.Context) ([]byte, error) {
	return c.read(ctx, config.COUNTIES_RESOURCE)
}

func (c *GaDataApiClientMock) FetchTable(ctx context.Context, table Table) ([]byte, error) {
	return c.read(ctx, config.TableResource(string(table)))
}

func (c *GaDataApiClientMock) read(ctx context.Context, resource string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := util.ReadCSVFile(filepath.Join(c.dir, filepath.FromSlash(resource)))
	if err != nil {
		return nil, fmt.Errorf("[GaDataApiClientMock] could not read %s: %w", resource, err)
	}
	return data, nil
}
