// Package normalize converts raw successful payloads into canonical domain
// values. It never returns errors: whatever shape a server produced, the
// caller gets a structurally valid value, possibly with fewer records than
// the payload hinted at.
//
// # Tiers
//
// Every entry point applies the same strategy. First a strict decode into
// the expected wire shape; if every required field of every record is
// present and well typed, that result is returned as-is. Otherwise the
// payload is treated as an untyped structure and probed for the record list
// under a fixed set of alternative keys and nestings. Each record found that
// way is rebuilt field by field from known aliases; a record yielding no
// recognizable field at all is dropped rather than reported.
//
// For timetables the probe order is: timetable.periods, timetable, periods,
// lessons, days (flattening each day's entries), then the sole value of a
// single-key object. An array payload is its own record list. The order is
// fixed so behavior stays deterministic across servers.
//
// # Defaults
//
// Rebuilt periods are always complete. A missing id becomes a negative
// position-based placeholder, missing colors become black on white, a
// missing lesson text is taken from the subject element or falls back to an
// index-based label, and a record without any usable date or time spans one
// hour from now. A span missing one endpoint extends one hour from the
// other; an end before its start is clamped to the start.
package normalize
