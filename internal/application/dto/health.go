package dto

type GetHealthCommand struct{}

type HealthOutput struct {
	Status         string `json:"status"`
	BitcoinNetwork string `json:"bitcoin_network,omitempty"`
}

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
}
