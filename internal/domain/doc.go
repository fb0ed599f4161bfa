// Package domain models NOAA Storm Events bulk data.
//
// # Data Source
//
// Records come from the NOAA National Climatic Data Center storm events
// bulk CSV (1950 onward), published as a bzip2-compressed file. Each row is
// one reported event: type label, state, begin date, casualty counts, and
// two damage figures (property, crop).
//
// # Event Type Labels
//
// The EVTYPE column is free text entered by hand over five decades. The same
// phenomenon appears under hundreds of spellings ("TSTM WIND", "THUNDERSTORM
// WINDS", "THUNDERSTORM WINDSS", ...). A reference vocabulary maps this mess
// onto the fixed set of officially recognized event categories:
//
//	canonical_label, match_pattern_1, match_pattern_2
//
// Vocabulary order is significant: the first entry whose pattern matches a
// raw label wins. Patterns are case-sensitive regular expressions matched
// anywhere in the label; an empty second pattern never matches. Labels that
// map to no entry are dropped from the clean set, a filtering policy rather
// than an error.
//
// # Damage Encoding
//
// Damage is split across a magnitude column and a single-character unit
// indicator column:
//
//	H/h -> x10^2    K/k -> x10^3    M/m -> x10^6    B/b -> x10^9
//	digit "0"-"9" -> literal power-of-ten exponent
//	empty, "NA", or anything else -> x10^0
//
// Letter codes and raw digit exponents coexist in the same column, so letters
// are mapped to their exponents before numeric interpretation. Malformed
// indicators ("+", "?", multi-character junk) resolve to exponent 0 and are
// never fatal. See [ResolveDamage].
//
// # Geography
//
// State codes cover the 50 US states plus territories, marine zones, and
// other non-state regions. Per-state aggregation downstream is restricted to
// the 50 standard states; [IsState] is the membership test.
package domain
