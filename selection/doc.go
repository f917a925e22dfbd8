// Package selection models how a pedalboard's effect order is chosen: one
// pick per position until the None sentinel ends the chain.
package selection
