package model

// Pagination describes where a page of results sits within the full
// filtered, sorted result set.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// QueryResult is what the query layer returns for a Filter: a page of
// Analyses plus its pagination descriptor.
type QueryResult struct {
	Stocks     []Analysis
	Pagination Pagination
}
