// Package snapdomain expands domain pattern expressions such as
// "{car,bike}[:v:]{2}.com" into the domain names they describe.
//
// The functions in this package accept raw text: it is normalized by package
// preprocess, parsed by package pattern and expanded by package expander.
package snapdomain

import (
	"github.com/shibukawa/snapdomain/expander"
	"github.com/shibukawa/snapdomain/pattern"
	"github.com/shibukawa/snapdomain/preprocess"
)

// DefaultMaxExpansion is the expansion limit used when none is configured.
const DefaultMaxExpansion = expander.DefaultMaxExpansion

// Compile parses a single expression.
func Compile(text string) (*pattern.Domain, error) {
	return pattern.Parse(preprocess.Prepare(text))
}

// CompileDocument parses a multi-line document of variable definitions and
// expressions.
func CompileDocument(text string) (*pattern.Document, error) {
	return pattern.ParseDocument(preprocess.PrepareDocument(text))
}

// Expand returns every domain name the expression describes.
func Expand(text string, maxExpansion int) ([]string, error) {
	d, err := Compile(text)
	if err != nil {
		return nil, err
	}

	return expander.Expand(d, maxExpansion)
}

// Preview returns up to limit domain names of the expression.
func Preview(text string, limit int) (expander.PreviewResult, error) {
	d, err := Compile(text)
	if err != nil {
		return expander.PreviewResult{}, err
	}

	return expander.Preview(d, limit), nil
}

// ExpandDocument returns the union of the expansions of every expression in
// the document.
func ExpandDocument(text string, maxExpansion int) ([]string, error) {
	doc, err := CompileDocument(text)
	if err != nil {
		return nil, err
	}

	return expander.ExpandDocument(doc, maxExpansion)
}

// PreviewDocument returns up to limit domain names of the document.
func PreviewDocument(text string, limit int) (expander.PreviewResult, error) {
	doc, err := CompileDocument(text)
	if err != nil {
		return expander.PreviewResult{}, err
	}

	return expander.PreviewDocument(doc, limit), nil
}

// Size returns the expansion size of the expression without expanding it.
func Size(text string) (expander.Cardinality, error) {
	d, err := Compile(text)
	if err != nil {
		return expander.Cardinality{}, err
	}

	return expander.Size(d), nil
}

// DocumentSize returns the sum of the expansion sizes of the document's
// expressions.
func DocumentSize(text string) (expander.Cardinality, error) {
	doc, err := CompileDocument(text)
	if err != nil {
		return expander.Cardinality{}, err
	}

	return expander.DocumentSize(doc), nil
}
