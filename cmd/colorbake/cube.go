package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// writeCube writes lut in the .cube text format. lut holds 3·edge³ values
// with red varying fastest, the order .cube files use.
func writeCube(w io.Writer, title string, edge int, lut []float32) error {
	n := edge * edge * edge
	if len(lut) < 3*n {
		return fmt.Errorf("cube: %d values for edge %d", len(lut), edge)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE %s\n", strconv.Quote(title))
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", edge)
	bw.WriteString("DOMAIN_MIN 0.0 0.0 0.0\n")
	bw.WriteString("DOMAIN_MAX 1.0 1.0 1.0\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", lut[3*i], lut[3*i+1], lut[3*i+2])
	}
	return bw.Flush()
}
