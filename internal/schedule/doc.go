// Package schedule holds the weekly climate schedule model and the
// operations that mutate it.
//
// Each side of the pod owns exactly one WeeklySchedule: seven
// DaySchedule entries, Monday through Sunday. Schedules are created
// lazily (the zero value is an empty week) and are never deleted, only
// overwritten field by field through Merge.
//
// Merge applies a partial Fragment onto existing days using
// field-level replace semantics: a power or alarm block present in the
// fragment replaces the stored block wholesale, a temperatures list
// replaces the whole stored list, and anything absent from the
// fragment is left untouched. Merging the same fragment twice yields
// the same result as merging it once.
//
// The Store persists committed schedules in SQLite, one row per side
// and weekday, with an in-memory cache in front. All times are
// zero-padded "HH:MM" strings and all temperatures are whole degrees
// Fahrenheit.
package schedule
