package stdlib

import "github.com/graphite-graph/graphite-graph/internal/compiler/callspec"

// FunctionDef is one catalog row: the compact signature tags, the nesting
// priority and the alias flag of a Graphite function
type FunctionDef struct {
	Name      string
	Tags      []string // nil: takes no arguments beyond the series
	Priority  int
	Alias     bool
	Generator bool
}

// Spec builds the immutable call spec for the row
func (d FunctionDef) Spec() *callspec.CallSpec {
	sig := callspec.MustSignature(d.Tags...)
	if d.Generator {
		return callspec.NewGenerator(d.Name, sig, d.Priority, d.Alias)
	}
	return callspec.New(d.Name, sig, d.Priority, d.Alias)
}

func fn(name string, priority int, alias bool, tags ...string) FunctionDef {
	return FunctionDef{Name: name, Tags: tags, Priority: priority, Alias: alias}
}

func gen(name string, alias bool, tags ...string) FunctionDef {
	return FunctionDef{Name: name, Tags: tags, Priority: 1, Alias: alias, Generator: true}
}

// Functions is the catalog of series manipulation functions.
// See http://readthedocs.org/docs/graphite/en/latest/functions.html
var Functions = []FunctionDef{
	fn("alias", 99, true, `"`),
	fn("aliasByNode", 50, true, "#*"),
	fn("aliasSub", 50, true, `"`, `"`),
	fn("alpha", 50, false, "#"),
	fn("areaBetween", 50, false),
	fn("asPercent", 50, false, "#?"),
	fn("averageAbove", 50, false, "#"),
	fn("averageBelow", 50, false, "#"),
	fn("averageSeries", 50, false),
	fn("averageSeriesWithWildcards", 50, false, "#*"),
	fn("cactiStyle", 100, false),
	fn("color", 98, false, `"`),
	fn("cumulative", 50, false),
	fn("currentAbove", 50, false, "#"),
	fn("currentBelow", 50, false, "#"),
	fn("dashed", 50, false, "#?"),
	fn("derivative", 50, false),
	fn("diffSeries", 50, false, "-*"),
	fn("divideSeries", 50, false, "-"),
	fn("drawAsInfinite", 50, false),
	fn("exclude", 50, false, `"`),
	fn("group", 50, false, "-*"),
	fn("groupByNode", 50, true, "#", `"`),
	fn("highestAverage", 50, false, "#"),
	fn("highestCurrent", 50, false, "#"),
	fn("highestMax", 50, false, "#"),
	fn("hitcount", 50, false, `"`),
	fn("holtWintersAberration", 50, false, "#?"),
	fn("holtWintersConfidenceArea", 50, false, "#?"),
	fn("holtWintersConfidenceBands", 50, false, "#?"),
	fn("holtWintersForecast", 50, false),
	fn("integral", 50, false),
	fn("keepLastValue", 50, false),
	fn("legendValue", 50, false, `"`),
	fn("limit", 50, false, "#"),
	fn("lineWidth", 90, false, "#"),
	fn("logarithm", 50, false, "#?"),
	fn("lowestAverage", 50, false, "#"),
	fn("lowestCurrent", 50, false, "#"),
	fn("maximumAbove", 50, false, "#"),
	fn("maximumBelow", 50, false, "#"),
	fn("maxSeries", 50, false, "-*"),
	fn("minimumAbove", 50, false, "#"),
	fn("minSeries", 50, false, "-*"),
	fn("mostDeviant", 50, false, "#<"),
	fn("movingAverage", 50, false, "#"),
	fn("movingMedian", 50, false, "#"),
	fn("multiplySeries", 50, false, "-*"),
	fn("nonNegativeDerivative", 50, false, "#?"),
	fn("nPercentile", 50, false, "#"),
	fn("offset", 50, false, "#"),
	fn("percentileOfSeries", 50, false, "#", "-?"),
	fn("rangeOfSeries", 50, false, "-*"),
	fn("removeAbovePercentile", 50, false, "#"),
	fn("removeAboveValue", 50, false, "#"),
	fn("removeBelowPercentile", 50, false, "#"),
	fn("removeBelowValue", 50, false, "#"),
	fn("scale", 75, false, "#"),
	fn("scaleToSeconds", 75, false, "#"),
	fn("secondYAxis", 50, false),
	fn("smartSummarize", 50, false, `"`, `"?`),
	fn("sortByMaxima", 50, false),
	fn("sortByMinima", 50, false),
	fn("stacked", 50, false),
	fn("stdev", 50, false, "#", "#?"),
	fn("substr", 50, true, "#", "#?"),
	fn("summarize", 50, false, `"`, `"?`, "-?"),
	fn("sumSeries", 50, false, "-*"),
	fn("sumSeriesWithWildcards", 50, false, "#*"),
	fn("timeShift", 50, false, `"`),
	fn("transformNull", 50, false, "#?"),
}

// Generators is the catalog of functions that manufacture a series from their
// own arguments
var Generators = []FunctionDef{
	gen("constantLine", false, "#"),
	gen("events", false, `"*`),
	gen("randomWalkFunction", true, `"`),
	gen("sinFunction", true, `"`, "-?"),
	gen("threshold", true, "#", `"?`, `"?`),
	gen("timeFunction", true, `"`),
}

// Aliases maps shorthand names to canonical function names
var Aliases = map[string]string{
	"avg":        "averageSeries",
	"cacti":      "cactiStyle",
	"centile":    "nPercentile",
	"counter":    "nonNegativeDerivative",
	"impulse":    "drawAsInfinite",
	"inf":        "drawAsInfinite",
	"max":        "maxSeries",
	"min":        "minSeries",
	"null":       "transformNull",
	"sum":        "sumSeries",
	"line":       "constantLine",
	"random":     "randomWalkFunction",
	"randomWalk": "randomWalkFunction",
	"sin":        "sinFunction",
	"time":       "timeFunction",
}
