// Package stac holds the typed document model for STAC Catalogs, Collections and Items.
//
// Every struct keeps the JSON members it does not declare in an Extra field (and, for
// Item properties and Collections, prefixed extension members in Extensions) so that a
// decoded document encodes back to the same content. Documents are decoded, never built:
// there are no constructors or setters beyond the zero value.
package stac
