package cache

// All cache tables share one layout: cache_key → JSON payload plus the unix
// time it was stored.
const tableLayout = `
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`

// Cache tables, one per vendor.
const (
	PlayStationTable = "playstation_cache"
	XboxTable        = "xbox_cache"
	RAWGTable        = "rawg_cache"
)

// AllCacheTables lists every table created on startup.
var AllCacheTables = []string{
	PlayStationTable,
	XboxTable,
	RAWGTable,
}

// ValidCacheTableNames is the whitelist of allowed cache table names.
// Table names are interpolated into SQL, so nothing else may reach a query.
var ValidCacheTableNames = map[string]bool{
	PlayStationTable: true,
	XboxTable:        true,
	RAWGTable:        true,
}

// SourceTables maps the user-facing source names to their cache tables.
var SourceTables = map[string]string{
	"playstation": PlayStationTable,
	"xbox":        XboxTable,
	"rawg":        RAWGTable,
}
