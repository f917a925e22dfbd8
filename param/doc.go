// Package param holds typed effect parameter values and the control policy
// used to collect them from user input.
//
// Controls are chosen by parameter name, not by value type: a fixed table
// maps names such as "mix", "threshold_db" or "cutoff_hz" to a ranged
// slider, an integer slider or a select. Every other name falls back to a
// free-text control whose input is coerced to the type of the parameter's
// default. Coercion failures are reported as *CoercionError.
package param
