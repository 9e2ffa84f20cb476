// Package textutil provides the normalized fuzzy string comparison used to
// score candidate releases against local files.
//
// Comparison is a three-step cascade: normalized equality, substring
// containment, then a Levenshtein ratio. Normalization lowercases, folds
// "&" to "and", strips apostrophes, turns hyphens into spaces, and collapses
// whitespace so cosmetic differences between catalogs do not cost score.
package textutil
