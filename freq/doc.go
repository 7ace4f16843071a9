// Package freq defines the fixed set of analysis and synthesis frequencies.
package freq
