package domain

// states is the 50 standard US state codes. The dataset also carries DC,
// territories (PR, GU, VI, AS), and marine zones (AM, AN, GM, LE, ...);
// per-state aggregation excludes all of those.
var states = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {},
	"IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {},
	"MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {},
	"TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {},
	"WY": {},
}

// IsState reports whether code is one of the 50 standard US state codes.
// The code must already be upper-cased, which Clean guarantees.
func IsState(code string) bool {
	_, ok := states[code]
	return ok
}
