// Package pipeline turns a selection of effect names into a running
// pedalboard.
//
// A pass goes through four steps:
//
//	stages, err := pipeline.Stages(reg, names, input)   // collect typed parameters
//	effects, err := pipeline.Build(stages)              // construct each effect
//	board, err := pipeline.NewBoard(effects, rate)      // chain them
//	out, err := board.Process(ctx, in)                  // one pass over the buffer
//
// Each step aborts on the first error. Stages are processed strictly in
// selection order and share no state.
package pipeline
