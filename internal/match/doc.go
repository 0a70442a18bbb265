// Package match ranks unknown input keys against declared field names so a
// missing-field error can say which key the caller probably meant.
package match
