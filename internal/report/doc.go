// Package report renders evaluations and status listings as console text.
package report
