package ingest

import (
	"context"
	"encoding/json"

	"newscast/internal/news"
	"newscast/internal/services"
)

const anthropicVersion = "2023-06-01"

type modelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		CreatedAt   string `json:"created_at"`
	} `json:"data"`
}

// fetchModels queries the Anthropic models listing endpoint.
func (ing *Ingestor) fetchModels(ctx context.Context) ([]news.Model, error) {
	if ing.cfg.Claude.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "models",
			"api key not configured for models endpoint", nil)
	}

	body, err := ing.get(ctx, ing.cfg.Ingest.ModelsURL, map[string]string{
		"x-api-key":         ing.cfg.Claude.APIKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}

	var resp modelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, services.Wrap(services.ErrTransient, "ingest", "models", "decode models response", err)
	}

	models := make([]news.Model, 0, len(resp.Data))
	for _, entry := range resp.Data {
		models = append(models, news.Model{
			ID:          entry.ID,
			DisplayName: entry.DisplayName,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return models, nil
}
