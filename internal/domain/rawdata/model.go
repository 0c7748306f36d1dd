package rawdata

import "time"

// Payload archives one raw document pulled from the upstream scores feed.
// Kept verbatim so ingestion bugs can be replayed against the original data.
type Payload struct {
	Source          string
	EntityType      string
	EntityKey       string
	TournamentRefID string
	GameRefID       string
	PayloadJSON     string
	PayloadHash     string
	SourceUpdatedAt *time.Time
}
