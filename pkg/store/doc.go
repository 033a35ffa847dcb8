// Package store contains implementations of the domain.TaskStore interface.
// Each implementation in this package represents a different persistence
// strategy. The Component type selects one of them from configuration.
package store
