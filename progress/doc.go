// Package progress renders a live count of indexed files.
package progress
