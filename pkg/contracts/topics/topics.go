package topics

const (
	// Catálogo (feed de odds)
	CatalogUpserts    = "catalog_upserts"
	CatalogUpsertsDLQ = "catalog_upserts_dlq"

	// Bets
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// Settlement
	EventSettled = "event_settled"
)
