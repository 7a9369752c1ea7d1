// Package scoring rolls question scores up into subcategory and life area results.
//
// A subcategory average is the plain mean of its response scores. A life area average is the
// unweighted mean of its subcategories' one-decimal averages, so a subcategory answered once
// counts as much as one answered five times. Subcategories and areas with nothing to average
// produce no result at all.
package scoring
