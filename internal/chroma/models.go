package chroma

// Request models
type CreateCollectionRequest struct {
	Name        string                 `json:"name"`
	GetOrCreate bool                   `json:"get_or_create"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type AddRequest struct {
	IDs        []string                 `json:"ids"`
	Embeddings [][]float64              `json:"embeddings"`
	Metadatas  []map[string]interface{} `json:"metadatas,omitempty"`
	Documents  []string                 `json:"documents,omitempty"`
}

type QueryRequest struct {
	QueryEmbeddings [][]float64 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// Response models
type Collection struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

type QueryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

// Document is one retrieved catalog entry with its stored attributes.
// Candidates arrive most-similar first; rank order is the only
// similarity signal surfaced to callers.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]interface{}
	Distance float64
}
