// Package charts provides the built-in chart renderers.
//
// Importing the package registers every chart with [vis.Default]:
//
//	bar-chart          scalar values
//	bubble-chart       scalar values, at most 50 records
//	grouped-bar-chart  grouped values
//	stacked-bar-chart  grouped values
//	pie-chart          scalar values, at most 20 records
//	range-bar-chart    min/max/avg values
//	timeline           scalar values with a date
//	map-vis            scalar values with a geo field; needs envelope features
//	table-vis          anything
//
// Renderers size themselves from the container box, falling back to fixed
// defaults, and reconcile marks by record identity so that re-rendering the
// same data only updates nodes in place. Marks enter invisible, transition
// to their final position and fade out before removal.
package charts
