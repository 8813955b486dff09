// Package xmlwalk contains pull-loop consumers built on xmltok events:
// a balancing wrapper that validates and closes elements, text collection
// for a named element, and event statistics.
package xmlwalk
