// Package layout places calendar events on a column grid.
//
// A layout pass has two stages. Pack splits the events of one column into
// lanes (side-by-side sub-columns) so that no two overlapping events share a
// lane. Resolve turns an event and its column/lane coordinates into an
// absolute rectangle using the grid's row and column origins.
//
// Packing is a greedy first-fit sweep over the events sorted by start time,
// not an optimal interval colouring. It yields the minimum lane count for
// simple overlap chains; for other shapes it may use more lanes than
// strictly necessary. Changing this changes visible lane assignment.
//
// Everything here is a pure function of its arguments. Nothing is cached
// between calls and no timers are owned; the host decides when to rerun.
package layout
