// Package constants provides shared constants used throughout the parcelmerge
// codebase. This includes file permissions, default paths, and the thresholds
// used by the reporting commands.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default locations of the county inputs and the combined output
const (
	// DefaultSourcePattern is the path of a reprojected county shapefile,
	// formatted with the source ID
	DefaultSourcePattern = "data/reprojected_4326-shps/%s-parcels.shp"

	// DefaultOutputPath is where the combined dataset is written
	DefaultOutputPath = "data/combined/metro-combined.geojsons"
)

// Sidecar file extensions written next to a dataset
const (
	// SchemaExt holds the ordered field definitions of a GeoJSON text sequence
	SchemaExt = ".schema.yaml"

	// ProjectionExt holds the spatial reference as ESRI WKT
	ProjectionExt = ".prj"

	// ManifestExt holds the summary of the run that produced the dataset
	ManifestExt = ".manifest.yaml"
)

// Reporting constants
const (
	// DistributionField is the residential value field used for class breaks
	DistributionField = "EMV_TOTAL"

	// DistributionCeiling excludes outliers above one million dollars
	DistributionCeiling = 1_000_000

	// DistributionIntervals is the number of equal percentile intervals
	DistributionIntervals = 7

	// DefaultProgressEvery is how many features are written between progress logs
	DefaultProgressEvery = 10000

	// WriteBufferSize is the default buffer size for write operations
	WriteBufferSize = 64 * 1024
)
