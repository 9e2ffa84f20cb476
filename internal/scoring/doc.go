// Package scoring ranks candidate releases against a local file.
//
// The score is a weighted sum of field comparisons normalized to [0, 1].
// A criterion only participates when both sides carry data; missing data is
// excluded from numerator and denominator alike, so absence never penalizes
// a candidate. A fixed threshold decides when the best match is confident
// enough to apply without user review.
package scoring
