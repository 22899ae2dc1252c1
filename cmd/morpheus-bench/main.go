package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes.
const (
	ExitSuccess     = 0 // every paper completed
	ExitPaperFailed = 1 // one or more papers failed or were left incomplete
	ExitError       = 2 // configuration or runtime error
)

// PaperFailureError indicates the benchmark ran to the end but one or more
// papers did not complete.
type PaperFailureError struct {
	Message string
}

func (e *PaperFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var paperErr *PaperFailureError
		if errors.As(err, &paperErr) {
			os.Exit(ExitPaperFailed)
		}
		os.Exit(ExitError)
	}
}
