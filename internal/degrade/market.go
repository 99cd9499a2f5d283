package degrade

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// DefaultRequiredMarketFields are the market data fields checked when the
// caller supplies none.
var DefaultRequiredMarketFields = []string{
	"industry",
	"totalMarketSize",
	"customerSegments",
	"pricingData",
	"valueProposition",
	"customerWillingness",
}

// methodologyRequirements lists the fields each sizing methodology needs.
// Order matches model.SizingMethods.
var methodologyRequirements = []struct {
	method string
	fields []string
}{
	{model.MethodTopDown, []string{"industry", "totalMarketSize"}},
	{model.MethodBottomUp, []string{"customerSegments", "pricingData"}},
	{model.MethodValueTheory, []string{"valueProposition", "customerWillingness"}},
}

// HandleInsufficientMarketData decides whether market sizing can run on the
// available data. Completeness is the fraction of requiredFields present.
//
//   - completeness < 0.3: cannot proceed
//   - no methodology has all its inputs: cannot proceed
//   - completeness < 0.7: proceed degraded at confidence = completeness
//   - otherwise proceed at full confidence
func (m *Manager) HandleInsufficientMarketData(available map[string]any, requiredFields []string) Decision {
	if len(requiredFields) == 0 {
		requiredFields = DefaultRequiredMarketFields
	}

	var missing []string
	for _, f := range requiredFields {
		if !Present(available[f]) {
			missing = append(missing, f)
		}
	}
	completeness := float64(len(requiredFields)-len(missing)) / float64(len(requiredFields))
	methods := AvailableMethodologies(available)

	d := Decision{
		MissingFields:          missing,
		AvailableMethodologies: methods,
		Completeness:           &completeness,
		Recommendations:        []string{},
	}

	if completeness < MinMarketCompleteness {
		zap.L().Debug("degrade: market data too sparse",
			zap.Float64("completeness", completeness),
			zap.Strings("missing", missing),
		)
		d.DegradedAnalysis = true
		d.Message = fmt.Sprintf("Insufficient market data (%.0f%% complete); missing: %s",
			completeness*100, strings.Join(missing, ", "))
		d.Recommendations = append(d.Recommendations,
			fmt.Sprintf("Gather the missing market data: %s", strings.Join(missing, ", ")),
			"Start with industry reports or analyst coverage to establish a total market size",
		)
		return d
	}

	if len(methods) == 0 {
		zap.L().Debug("degrade: no sizing methodology applicable",
			zap.Float64("completeness", completeness),
		)
		d.DegradedAnalysis = true
		d.Message = "Market data is present but no sizing methodology has the inputs it needs"
		for _, req := range methodologyRequirements {
			d.Recommendations = append(d.Recommendations,
				fmt.Sprintf("For %s sizing, provide %s", req.method, strings.Join(req.fields, " and ")))
		}
		return d
	}

	if completeness < DegradedMarketCompleteness {
		d.CanProceed = true
		d.DegradedAnalysis = true
		d.AdjustedConfidence = completeness
		d.Message = fmt.Sprintf("Partial market data (%.0f%% complete); sizing limited to %s",
			completeness*100, strings.Join(methods, ", "))
		d.Recommendations = append(d.Recommendations,
			fmt.Sprintf("Proceed with available methodologies: %s", strings.Join(methods, ", ")),
			fmt.Sprintf("Collect missing fields to improve accuracy: %s", strings.Join(missing, ", ")),
		)
		return d
	}

	d.CanProceed = true
	d.AdjustedConfidence = fullConfidence
	d.Message = fmt.Sprintf("Sufficient market data (%.0f%% complete)", completeness*100)
	if len(missing) > 0 {
		d.Recommendations = append(d.Recommendations,
			fmt.Sprintf("Optional: collect %s to strengthen the estimate", strings.Join(missing, ", ")))
	}
	return d
}

// AvailableMethodologies returns the sizing methodologies whose required
// fields are all present, in canonical order.
func AvailableMethodologies(available map[string]any) []string {
	var out []string
	for _, req := range methodologyRequirements {
		ok := true
		for _, f := range req.fields {
			if !Present(available[f]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, req.method)
		}
	}
	return out
}

// Present reports whether a decoded JSON value carries data. Nil, blank
// strings, zero numbers, false and empty collections count as missing.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}
