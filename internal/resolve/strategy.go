package resolve

//go:generate go tool stringer -type=Strategy -trimprefix=Strategy -output=strategy_string.go

// Strategy names the resolution step that matched a receiver.
type Strategy int

const (
	_ Strategy = iota // zero value: not resolved

	StrategyLiteral
	StrategyStaticType
	StrategyGenericView
	StrategyHeritage
)
