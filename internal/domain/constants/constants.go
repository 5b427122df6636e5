package constants

import "time"

// Sheet schema konstantalari
const (
	// NameHeaderKeyword substring identifying the aroma name column
	NameHeaderKeyword = "название"

	// CategoryHeader gender/type column
	CategoryHeader = "пол"

	// Price tier columns (per 10/50/100 g)
	Price10Header  = "10 гр"
	Price50Header  = "50 гр"
	Price100Header = "100 гр"

	// CollectedHeaderKeyword group-wide collected quantity column
	CollectedHeaderKeyword = "набрано"
)

// Session konstantalari
const (
	// DefaultPageSize rows per list page
	DefaultPageSize = 8
	// MaxPageSize upper bound for PAGE_SIZE; one keyboard row per list row
	MaxPageSize = 25

	// DefaultSessionTTL idle time before a session (and its plan) is dropped
	DefaultSessionTTL = 12 * time.Hour

	// DefaultFetchTimeout spreadsheet fetch deadline; fetch is never retried
	DefaultFetchTimeout = 20 * time.Second
)

// Xabar konstantalari
const (
	DefaultOrderTag      = "#заказ"
	DefaultReorderTag    = "#дозаказ"
	DefaultAnchorKeyword = "новинки"
)

// Collected thresholds for the presentational marker
const (
	CollectedFullThreshold = 100
	CollectedHalfThreshold = 50
)
