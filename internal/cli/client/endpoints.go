package client

const (
	// RAG endpoints
	endpointQuery = "/query" // POST - one conversational turn
)

// Request headers
const (
	headerContractVersion = "X-Contract-Version"
	contentTypeJSON       = "application/json"
)
