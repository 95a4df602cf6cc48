//go:build !linux

package main

// GPIO output depends on periph.io host drivers that only exist on
// linux; elsewhere the backend is a stub that refuses to construct.
func NewGPIOMatrix(rowNames, colNames []string) (MatrixOutput, error) {
	return nil, &DisplayError{
		Operation: "gpio init",
		Details:   "gpio backend is only available on linux",
	}
}
