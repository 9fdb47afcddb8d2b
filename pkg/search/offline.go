package search

import "context"

// OfflineProvider is the terminal fallback of the lookup chain. It never
// fails and produces a single clearly-labeled placeholder so callers can
// always hand the model some observation to reason over.
type OfflineProvider struct{}

// NewOfflineProvider creates the offline fallback.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Name() string { return "offline" }

// Search implements Provider. It always succeeds with one result.
func (p *OfflineProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return []Result{
		{
			Title:   "Offline result for: " + query,
			URL:     "offline://search",
			Content: "No live search backend was reachable. This is an offline placeholder; answer from existing knowledge and note that current information could not be retrieved for: " + query,
		},
	}, nil
}
