package options

import (
	"github.com/cqlforge/cql2elm/internal/engineapi"
	"github.com/cqlforge/cql2elm/internal/probe"
)

// Bind applies every field of the record onto an engine-native options
// object through capability probes. Setters the object does not expose are
// skipped; a panicking or failing setter is recorded in its outcome and
// does not abort the remaining fields. The returned outcomes are in field
// order, one per probed setter, for debug logging.
func Bind(target any, rec Record) []probe.Outcome {
	outcomes := []probe.Outcome{
		probe.Capability(target, "EnableDateRangeOptimization", func(s engineapi.DateRangeOptimizationSetter) error {
			s.SetEnableDateRangeOptimization(rec.DateRangeOptimization)
			return nil
		}),
		probe.Capability(target, "EnableAnnotations", func(s engineapi.AnnotationsSetter) error {
			s.SetEnableAnnotations(rec.Annotations)
			return nil
		}),
		probe.Capability(target, "EnableLocators", func(s engineapi.LocatorsSetter) error {
			s.SetEnableLocators(rec.Locators)
			return nil
		}),
		probe.Capability(target, "EnableResultTypes", func(s engineapi.ResultTypesSetter) error {
			s.SetEnableResultTypes(rec.ResultTypes)
			return nil
		}),
		probe.Capability(target, "EnableDetailedErrors", func(s engineapi.DetailedErrorsSetter) error {
			s.SetEnableDetailedErrors(rec.DetailedErrors)
			return nil
		}),
		probe.Capability(target, "DisableListTraversal", func(s engineapi.ListTraversalSetter) error {
			s.SetDisableListTraversal(rec.DisableListTraversal)
			return nil
		}),
		probe.Capability(target, "DisableListDemotion", func(s engineapi.ListDemotionSetter) error {
			s.SetDisableListDemotion(rec.DisableListDemotion)
			return nil
		}),
		probe.Capability(target, "DisableListPromotion", func(s engineapi.ListPromotionSetter) error {
			s.SetDisableListPromotion(rec.DisableListPromotion)
			return nil
		}),
		probe.Capability(target, "EnableIntervalDemotion", func(s engineapi.IntervalDemotionSetter) error {
			s.SetEnableIntervalDemotion(rec.EnableIntervalDemotion)
			return nil
		}),
		probe.Capability(target, "EnableIntervalPromotion", func(s engineapi.IntervalPromotionSetter) error {
			s.SetEnableIntervalPromotion(rec.EnableIntervalPromotion)
			return nil
		}),
		probe.Capability(target, "DisableMethodInvocation", func(s engineapi.MethodInvocationSetter) error {
			s.SetDisableMethodInvocation(rec.DisableMethodInvocation)
			return nil
		}),
		probe.Capability(target, "RequireFromKeyword", func(s engineapi.RequireFromKeywordSetter) error {
			s.SetRequireFromKeyword(rec.RequireFromKeyword)
			return nil
		}),
		probe.Capability(target, "Strict", func(s engineapi.StrictSetter) error {
			s.SetStrict(rec.Strict)
			return nil
		}),
		probe.Capability(target, "Debug", func(s engineapi.DebugSetter) error {
			s.SetDebug(rec.Debug)
			return nil
		}),
		probe.Capability(target, "ValidateUnits", func(s engineapi.ValidateUnitsSetter) error {
			s.SetValidateUnits(rec.ValidateUnits)
			return nil
		}),
	}
	return append(outcomes, bindSignatureLevel(target, rec))
}

// bindSignatureLevel tries the string-based setter first, then re-attempts
// with the value mapped onto the engine enumeration. Engines expose one
// shape or the other, rarely both.
func bindSignatureLevel(target any, rec Record) probe.Outcome {
	out := probe.Capability(target, "SignatureLevel", func(s engineapi.SignatureLevelStringSetter) error {
		return s.SetSignatureLevelName(rec.Signatures)
	})
	if out.Applied {
		return out
	}

	level, err := ParseSignatureLevel(rec.Signatures)
	if err != nil {
		return probe.Outcome{Name: "SignatureLevel", Err: err}
	}
	return probe.Capability(target, "SignatureLevel", func(s engineapi.SignatureLevelSetter) error {
		s.SetSignatureLevel(level)
		return nil
	})
}
