// Package domain models NOAA sea level change data and the geometry needed to
// plot it.
//
// # Data Source
//
// The dataset is the NOAA "Sea Level Change" export (Sea_Levels_NOAA.csv). Each
// row is one satellite altimetry observation for a named body of water:
//
//	ObjectId,Measure,Date,Change in Mean (mm)
//	1,World,D12/17/1992,-20.53
//
// # Data Conventions
//
// Measure:
//
//	A sea, ocean or region name ("Atlantic Ocean", "Baltic Sea", "Nino").
//	"World" is the global aggregate and is always listed first in the catalog;
//	the remaining measures follow alphabetically.
//
// Date format:
//
//	"<M>/<D>/<Y>" with a 1-based month, optionally prefixed with "D":
//	"D12/17/1992" and "12/17/1992" are the same day. Exports mix both forms, so
//	the parser accepts either and the validate command reports datasets that do.
//	See [ParseDate].
//
// Change in Mean:
//
//	Millimeters of change relative to the 1993-2008 mean. Negative values are
//	common in the early years.
//
// # Plot Geometry
//
// Records of one measure form a [View] in source order, which is chronological
// by dataset convention. Views are plotted against their position index, not
// their date, so a comparison view of a different length is aligned by index:
// index 2 of "World" and index 2 of "Atlantic Ocean" share an X coordinate even
// when their dates differ. [Nearest] preserves that alignment for hit testing.
//
// [ComputeBounds] pads the value range by 10% on each side and falls back to a
// span of value±1 for constant series. [ToScreen] and [ToIndex] map between
// data space and plot space with screen Y growing downward.
package domain
