// Package types defines the task record, the board it is grouped into, the
// immutable schema that names columns and priorities, the HTML escaping
// boundary, and the sentinel errors shared by the taskboard packages.
package types
