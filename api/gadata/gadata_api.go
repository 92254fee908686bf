package gadata

import "context"

// Table names a demographic snapshot table of the state report.
type Table string

const (
	TableAge     Table = "age"
	TableGender  Table = "gender"
	TableTesting Table = "testing"
	TableRace    Table = "race"
	TableSummary Table = "summary"
)

// Tables lists every demographic table, in load order.
var Tables = []Table{TableAge, TableGender, TableTesting, TableRace, TableSummary}

// DataSourceAPI yields the canonical CSV files the dataset is built from.
type DataSourceAPI interface {
	FetchStatewide(ctx context.Context) ([]byte, error)
	FetchCounties(ctx context.Context) ([]byte, error)
	FetchTable(ctx context.Context, table Table) ([]byte, error)
}
