package engineapi

// Option setter capabilities. Engine versions expose different subsets of
// these on their translator options object; each is asserted independently
// so an absent setter is a skip, never a failure.

type DateRangeOptimizationSetter interface {
	SetEnableDateRangeOptimization(bool)
}

type AnnotationsSetter interface {
	SetEnableAnnotations(bool)
}

type LocatorsSetter interface {
	SetEnableLocators(bool)
}

type ResultTypesSetter interface {
	SetEnableResultTypes(bool)
}

type DetailedErrorsSetter interface {
	SetEnableDetailedErrors(bool)
}

type ListTraversalSetter interface {
	SetDisableListTraversal(bool)
}

type ListDemotionSetter interface {
	SetDisableListDemotion(bool)
}

type ListPromotionSetter interface {
	SetDisableListPromotion(bool)
}

type IntervalDemotionSetter interface {
	SetEnableIntervalDemotion(bool)
}

type IntervalPromotionSetter interface {
	SetEnableIntervalPromotion(bool)
}

type MethodInvocationSetter interface {
	SetDisableMethodInvocation(bool)
}

type RequireFromKeywordSetter interface {
	SetRequireFromKeyword(bool)
}

type StrictSetter interface {
	SetStrict(bool)
}

type DebugSetter interface {
	SetDebug(bool)
}

type ValidateUnitsSetter interface {
	SetValidateUnits(bool)
}

// SignatureLevelStringSetter accepts the signature level by name. Tried
// before the typed variant; engines that validate the name may reject it.
type SignatureLevelStringSetter interface {
	SetSignatureLevelName(name string) error
}

// SignatureLevelSetter accepts the typed signature level.
type SignatureLevelSetter interface {
	SetSignatureLevel(level SignatureLevel)
}
