package embedded

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// ELM document shapes shared by the XML and JSON serializers. The embedded
// engine emits the r1 library schema for the statements its front end
// models.

type elmLibrary struct {
	XMLName     xml.Name      `xml:"urn:hl7-org:elm:r1 library" json:"-"`
	Identifier  elmIdentifier `xml:"identifier" json:"identifier"`
	Schema      elmIdentifier `xml:"schemaIdentifier" json:"schemaIdentifier"`
	Usings      *elmUsings    `xml:"usings,omitempty" json:"usings,omitempty"`
	Includes    *elmIncludes  `xml:"includes,omitempty" json:"includes,omitempty"`
	Statements  *elmDefs      `xml:"statements,omitempty" json:"statements,omitempty"`
	Annotations []string      `xml:"annotation,omitempty" json:"annotation,omitempty"`
}

type elmIdentifier struct {
	ID      string `xml:"id,attr" json:"id"`
	Version string `xml:"version,attr,omitempty" json:"version,omitempty"`
}

type elmUsings struct {
	Defs []elmUsingDef `xml:"def" json:"def"`
}

type elmUsingDef struct {
	LocalIdentifier string `xml:"localIdentifier,attr" json:"localIdentifier"`
	URI             string `xml:"uri,attr" json:"uri"`
	Version         string `xml:"version,attr,omitempty" json:"version,omitempty"`
	Locator         string `xml:"locator,attr,omitempty" json:"locator,omitempty"`
}

type elmIncludes struct {
	Defs []elmIncludeDef `xml:"def" json:"def"`
}

type elmIncludeDef struct {
	LocalIdentifier string `xml:"localIdentifier,attr" json:"localIdentifier"`
	Path            string `xml:"path,attr" json:"path"`
	Version         string `xml:"version,attr,omitempty" json:"version,omitempty"`
	Locator         string `xml:"locator,attr,omitempty" json:"locator,omitempty"`
}

type elmDefs struct {
	Defs []elmStatementDef `xml:"def" json:"def"`
}

type elmStatementDef struct {
	Name       string        `xml:"name,attr" json:"name"`
	Context    string        `xml:"context,attr,omitempty" json:"context,omitempty"`
	Locator    string        `xml:"locator,attr,omitempty" json:"locator,omitempty"`
	Expression elmExpression `xml:"expression" json:"expression"`
}

type elmExpression struct {
	Type           string `xml:"type,attr" json:"type"`
	ValueType      string `xml:"valueType,attr,omitempty" json:"valueType,omitempty"`
	Value          string `xml:"value,attr,omitempty" json:"value,omitempty"`
	Name           string `xml:"name,attr,omitempty" json:"name,omitempty"`
	Description    string `xml:"description,attr,omitempty" json:"description,omitempty"`
	ResultTypeName string `xml:"resultTypeName,attr,omitempty" json:"resultTypeName,omitempty"`
}

var (
	stringLiteralRE  = regexp.MustCompile(`^'((?:[^']|'')*)'$`)
	integerLiteralRE = regexp.MustCompile(`^-?\d+$`)
	decimalLiteralRE = regexp.MustCompile(`^-?\d+\.\d+$`)
	identifierRE     = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// buildELM lowers a parsed library into the ELM document shape, honoring
// the option fields the embedded engine models (annotations, locators,
// result types).
func buildELM(lib *library, opts *TranslatorOptions) *elmLibrary {
	doc := &elmLibrary{
		Identifier: elmIdentifier{ID: lib.Name, Version: lib.Version},
		Schema:     elmIdentifier{ID: "urn:hl7-org:elm", Version: "r1"},
	}

	locator := func(line int) string {
		if opts == nil || !opts.locators || line == 0 {
			return ""
		}
		return fmt.Sprintf("%d:1", line)
	}

	if len(lib.Usings) > 0 {
		doc.Usings = &elmUsings{}
		for _, u := range lib.Usings {
			doc.Usings.Defs = append(doc.Usings.Defs, elmUsingDef{
				LocalIdentifier: u.Model,
				URI:             knownModels[u.Model],
				Version:         u.Version,
				Locator:         locator(u.Line),
			})
		}
	}

	if len(lib.Includes) > 0 {
		doc.Includes = &elmIncludes{}
		for _, inc := range lib.Includes {
			local := inc.Alias
			if local == "" {
				local = inc.Path
			}
			doc.Includes.Defs = append(doc.Includes.Defs, elmIncludeDef{
				LocalIdentifier: local,
				Path:            inc.Path,
				Version:         inc.Version,
				Locator:         locator(inc.Line),
			})
		}
	}

	if len(lib.Defines) > 0 {
		doc.Statements = &elmDefs{}
		for _, d := range lib.Defines {
			def := elmStatementDef{
				Name:       d.Name,
				Context:    d.Context,
				Locator:    locator(d.Line),
				Expression: lowerExpression(d.Expr, opts),
			}
			doc.Statements.Defs = append(doc.Statements.Defs, def)
			if opts != nil && opts.annotations {
				doc.Annotations = append(doc.Annotations, fmt.Sprintf("define %s: %s", d.Name, d.Expr))
			}
		}
	}

	return doc
}

// lowerExpression classifies the handful of expression forms the embedded
// engine understands; anything else becomes an opaque expression node.
func lowerExpression(expr string, opts *TranslatorOptions) elmExpression {
	resultType := func(t string) string {
		if opts == nil || !opts.resultTypes {
			return ""
		}
		return t
	}

	switch {
	case stringLiteralRE.MatchString(expr):
		value := strings.ReplaceAll(stringLiteralRE.FindStringSubmatch(expr)[1], "''", "'")
		return elmExpression{Type: "Literal", ValueType: "t:String", Value: value, ResultTypeName: resultType("t:String")}
	case integerLiteralRE.MatchString(expr):
		return elmExpression{Type: "Literal", ValueType: "t:Integer", Value: expr, ResultTypeName: resultType("t:Integer")}
	case decimalLiteralRE.MatchString(expr):
		return elmExpression{Type: "Literal", ValueType: "t:Decimal", Value: expr, ResultTypeName: resultType("t:Decimal")}
	case expr == "true" || expr == "false":
		return elmExpression{Type: "Literal", ValueType: "t:Boolean", Value: expr, ResultTypeName: resultType("t:Boolean")}
	case expr == "null":
		return elmExpression{Type: "Null"}
	case identifierRE.MatchString(expr):
		return elmExpression{Type: "ExpressionRef", Name: expr}
	default:
		return elmExpression{Type: "Expression", Description: expr}
	}
}

func (t *translator) ToXML() (string, error) {
	out, err := xml.MarshalIndent(buildELM(t.lib, t.opts), "", "   ")
	if err != nil {
		return "", fmt.Errorf("serializing ELM XML: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func (t *translator) ToJSON() (string, error) {
	doc := struct {
		Library *elmLibrary `json:"library"`
	}{buildELM(t.lib, t.opts)}
	out, err := json.MarshalIndent(doc, "", "   ")
	if err != nil {
		return "", fmt.Errorf("serializing ELM JSON: %w", err)
	}
	return string(out) + "\n", nil
}
