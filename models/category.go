package models

import (
	"fmt"
	"net/url"
)

// QCCategory is both the display label and the storage/routing key of a registry.
type QCCategory string

const (
	CategoryCoatingAdhesion   QCCategory = "RQC-BOP-Inco (Coating Adhesion)"
	CategorySegregationRework QCCategory = "Segregation/Rework Monitoring"
	CategoryWithoutInvoice    QCCategory = "Without Invoice Register"
	CategorySamplingPart      QCCategory = "Sampling Part Notebook"
	CategoryExportOnly        QCCategory = "Export Only Data Register"
)

var allCategories = []QCCategory{
	CategoryCoatingAdhesion,
	CategorySegregationRework,
	CategoryWithoutInvoice,
	CategorySamplingPart,
	CategoryExportOnly,
}

// AllCategories returns the registries in dashboard order.
func AllCategories() []QCCategory {
	out := make([]QCCategory, len(allCategories))
	copy(out, allCategories)
	return out
}

func (c QCCategory) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c QCCategory) String() string {
	return string(c)
}

// PathSegment escapes the category for use as a single route segment.
// Parentheses and slashes are escaped too.
func (c QCCategory) PathSegment() string {
	return url.PathEscape(string(c))
}

func ParseCategory(s string) (QCCategory, error) {
	c := QCCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ParseCategorySegment decodes a route segment produced by PathSegment.
func ParseCategorySegment(segment string) (QCCategory, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", fmt.Errorf("decode category segment: %w", err)
	}
	return ParseCategory(decoded)
}
