// Package schedule holds the weekday table and the formatting rules used to
// present meeting hours.
//
// Day codes are the three-letter lower-case abbreviations stored with each
// meeting hour (mon..sun). Ordering follows Monday=1 through Sunday=7.
package schedule
