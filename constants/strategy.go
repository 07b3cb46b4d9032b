package constants

// Strategy identifies which recognition strategy produced a component.
type Strategy string

// Stable values (reported in confidence reasons and exports).
const (
	StrategyKeyword     Strategy = "KEYWORD"       // dictionary/keyword substring match
	StrategyCodePattern Strategy = "CODE_PATTERN"  // member-code regular expression match
	StrategyGeometry    Strategy = "GEOMETRY"      // closed-polyline bounding-box heuristic
	StrategyExternal    Strategy = "EXTERNAL"      // pluggable external model
)
