// Package search builds filter trees from free-text queries and simple
// query-parameter filters. Trees are evaluated in memory with Match or
// translated by a store into its own query language.
package search
