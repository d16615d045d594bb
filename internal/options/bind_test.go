package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqlforge/cql2elm/internal/engineapi"
)

// fullOptions exposes every setter, with the string-based signature shape.
type fullOptions struct {
	annotations   bool
	locators      bool
	detailed      bool
	strict        bool
	sigName       string
	boolSetterHit int
}

func (o *fullOptions) SetEnableDateRangeOptimization(bool) { o.boolSetterHit++ }
func (o *fullOptions) SetEnableAnnotations(v bool)         { o.annotations = v; o.boolSetterHit++ }
func (o *fullOptions) SetEnableLocators(v bool)            { o.locators = v; o.boolSetterHit++ }
func (o *fullOptions) SetEnableResultTypes(bool)           { o.boolSetterHit++ }
func (o *fullOptions) SetEnableDetailedErrors(v bool)      { o.detailed = v; o.boolSetterHit++ }
func (o *fullOptions) SetDisableListTraversal(bool)        { o.boolSetterHit++ }
func (o *fullOptions) SetDisableListDemotion(bool)         { o.boolSetterHit++ }
func (o *fullOptions) SetDisableListPromotion(bool)        { o.boolSetterHit++ }
func (o *fullOptions) SetEnableIntervalDemotion(bool)      { o.boolSetterHit++ }
func (o *fullOptions) SetEnableIntervalPromotion(bool)     { o.boolSetterHit++ }
func (o *fullOptions) SetDisableMethodInvocation(bool)     { o.boolSetterHit++ }
func (o *fullOptions) SetRequireFromKeyword(bool)          { o.boolSetterHit++ }
func (o *fullOptions) SetStrict(v bool)                    { o.strict = v; o.boolSetterHit++ }
func (o *fullOptions) SetDebug(bool)                       { o.boolSetterHit++ }
func (o *fullOptions) SetValidateUnits(bool)               { o.boolSetterHit++ }

func (o *fullOptions) SetSignatureLevelName(name string) error {
	if name == "" {
		return errors.New("empty signature level")
	}
	o.sigName = name
	return nil
}

// sparseOptions is an older engine surface: two boolean setters and the
// typed signature shape only.
type sparseOptions struct {
	annotations bool
	locators    bool
	level       engineapi.SignatureLevel
}

func (o *sparseOptions) SetEnableAnnotations(v bool) { o.annotations = v }
func (o *sparseOptions) SetEnableLocators(v bool)    { o.locators = v }

func (o *sparseOptions) SetSignatureLevel(level engineapi.SignatureLevel) { o.level = level }

func TestBindAppliesEveryExposedSetter(t *testing.T) {
	target := &fullOptions{}
	rec := Default()
	rec.DetailedErrors = true
	rec.Strict = true
	rec.Signatures = "Overloads"

	outcomes := Bind(target, rec)

	for _, out := range outcomes {
		assert.True(t, out.Applied, "expected %s to apply", out.Name)
	}
	assert.Equal(t, 15, target.boolSetterHit)
	assert.True(t, target.annotations)
	assert.True(t, target.locators)
	assert.True(t, target.detailed)
	assert.True(t, target.strict)
	assert.Equal(t, "Overloads", target.sigName)
}

func TestBindSkipsAbsentSetters(t *testing.T) {
	target := &sparseOptions{}
	rec := Default()
	rec.Signatures = "All"

	outcomes := Bind(target, rec)

	applied := map[string]bool{}
	for _, out := range outcomes {
		applied[out.Name] = out.Applied
	}
	assert.True(t, applied["EnableAnnotations"])
	assert.True(t, applied["EnableLocators"])
	assert.False(t, applied["ValidateUnits"], "absent setter must be skipped")
	assert.False(t, applied["Strict"], "absent setter must be skipped")

	assert.True(t, target.annotations)
	assert.True(t, target.locators)
}

// The string-based attempt fails on sparseOptions, so the probe falls back
// to the enum mapped from the validated name.
func TestBindSignatureLevelEnumFallback(t *testing.T) {
	target := &sparseOptions{}
	rec := Default()
	rec.Signatures = "Differing"

	outcomes := Bind(target, rec)

	last := outcomes[len(outcomes)-1]
	require.Equal(t, "SignatureLevel", last.Name)
	assert.True(t, last.Applied)
	assert.Equal(t, engineapi.SignatureDiffering, target.level)
}

func TestBindOnTargetWithNoCapabilities(t *testing.T) {
	rec := Default()
	outcomes := Bind(struct{}{}, rec)

	for _, out := range outcomes {
		assert.True(t, out.Skipped(), "%s should be skipped on a bare target", out.Name)
	}
}
