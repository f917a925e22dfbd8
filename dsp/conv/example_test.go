package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/conv"
)

func ExampleOverlapAddConvolve() {
	out, err := conv.OverlapAddConvolve([]float64{1, 2, 3}, []float64{1, 1})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, v := range out {
		fmt.Printf("%.0f ", v)
	}
	fmt.Println()
	// Output: 1 3 5 3
}
