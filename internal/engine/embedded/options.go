package embedded

import "github.com/cqlforge/cql2elm/internal/engineapi"

// TranslatorOptions is the embedded engine's native options object. It
// exposes the setter surface of the current engine version; unit
// validation never shipped in the embedded engine, so callers probing for
// that setter skip it.
type TranslatorOptions struct {
	dateRangeOptimization   bool
	annotations             bool
	locators                bool
	resultTypes             bool
	detailedErrors          bool
	disableListTraversal    bool
	disableListDemotion     bool
	disableListPromotion    bool
	enableIntervalDemotion  bool
	enableIntervalPromotion bool
	disableMethodInvocation bool
	requireFromKeyword      bool
	strict                  bool
	debug                   bool
	signatureLevel          engineapi.SignatureLevel
}

func defaultTranslatorOptions() *TranslatorOptions {
	return &TranslatorOptions{}
}

func (o *TranslatorOptions) SetEnableDateRangeOptimization(v bool) { o.dateRangeOptimization = v }
func (o *TranslatorOptions) SetEnableAnnotations(v bool)           { o.annotations = v }
func (o *TranslatorOptions) SetEnableLocators(v bool)              { o.locators = v }
func (o *TranslatorOptions) SetEnableResultTypes(v bool)           { o.resultTypes = v }
func (o *TranslatorOptions) SetEnableDetailedErrors(v bool)        { o.detailedErrors = v }
func (o *TranslatorOptions) SetDisableListTraversal(v bool)        { o.disableListTraversal = v }
func (o *TranslatorOptions) SetDisableListDemotion(v bool)         { o.disableListDemotion = v }
func (o *TranslatorOptions) SetDisableListPromotion(v bool)        { o.disableListPromotion = v }
func (o *TranslatorOptions) SetEnableIntervalDemotion(v bool)      { o.enableIntervalDemotion = v }
func (o *TranslatorOptions) SetEnableIntervalPromotion(v bool)     { o.enableIntervalPromotion = v }
func (o *TranslatorOptions) SetDisableMethodInvocation(v bool)     { o.disableMethodInvocation = v }
func (o *TranslatorOptions) SetRequireFromKeyword(v bool)          { o.requireFromKeyword = v }
func (o *TranslatorOptions) SetStrict(v bool)                      { o.strict = v }
func (o *TranslatorOptions) SetDebug(v bool)                       { o.debug = v }

func (o *TranslatorOptions) SetSignatureLevel(level engineapi.SignatureLevel) {
	o.signatureLevel = level
}
