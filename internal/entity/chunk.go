package entity

// Chunk is a contiguous page range [StartPage, EndPage) of a source document,
// materialized as its own sub-document. Index is 1-based and contiguous
// across a split.
type Chunk struct {
	Index     int    `json:"index"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Name      string `json:"name"`
	Data      []byte `json:"-"`
}

// Pages is the number of pages in the chunk.
func (c Chunk) Pages() int {
	return c.EndPage - c.StartPage
}
