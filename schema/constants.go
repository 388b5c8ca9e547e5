package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// Disaggregation represents an optional grouping dimension for summaries.
	Disaggregation string

	// Sector represents an assistance sector tracked on alerts and responses.
	Sector string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default; run tracking off
)

// All disaggregation levels supported.
const (
	DisaggNone   Disaggregation = "none" // default
	DisaggAdmin1 Disaggregation = "admin1"
	DisaggAdmin2 Disaggregation = "admin2"
	DisaggSector Disaggregation = "sector"
)

// All assistance sectors tracked by the RRM.
const (
	SectorFood       Sector = "food"
	SectorWash       Sector = "wash"
	SectorNFI        Sector = "nfi"
	SectorShelter    Sector = "shelter"
	SectorHealth     Sector = "health"
	SectorProtection Sector = "protection"
	SectorMenstrual  Sector = "menstrual_hygiene"
	SectorFlour      Sector = "fortified_flour"
	SectorEducation  Sector = "education"
	SectorLivelihood Sector = "livelihood"
)

// AllSectors lists the sectors in canonical reporting order.
var AllSectors = []Sector{
	SectorFood,
	SectorWash,
	SectorNFI,
	SectorShelter,
	SectorHealth,
	SectorProtection,
	SectorMenstrual,
	SectorFlour,
	SectorEducation,
	SectorLivelihood,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run-store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDisaggregations lists all valid disaggregation levels.
var ValidDisaggregations = map[Disaggregation]struct{}{
	DisaggNone:   {},
	DisaggAdmin1: {},
	DisaggAdmin2: {},
	DisaggSector: {},
}
