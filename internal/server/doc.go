// Package server is the pedalboard's browser UI. Every request to / is one
// full pass: the query string carries the picks (fx1, fx2, ...) and the
// parameter inputs (p1.gain_db, ...), the pass runs, and the page shows the
// selection controls, audio players and plots, or the error that stopped
// the pass.
package server
