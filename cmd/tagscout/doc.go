// Command tagscout loads audio file tags, queries external catalogs for
// matching releases, and reconciles the differences field by field.
package main
