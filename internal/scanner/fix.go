// Package scanner holds bufio helpers for reading raw header text.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue may be returned by a SplitFunc wrapped with
// MakeSplitFuncExitByAdvance to consume input without producing a token and
// without ending the scan.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps a bufio.SplitFunc so that skipping input is
// not mistaken for the end of the scan.
//
// A plain bufio.Scanner stops once atEOF is set and the split func hands back
// no token, even if the split func only meant to discard some bytes and there
// is more data behind them. The wrapper loops over the split func on the
// remaining data until it yields a token, asks for more input, fails, or uses
// up the data, and reports the combined advance.
//
// Return ErrContinue with a positive advance to drop bytes and keep going.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		total := 0
		for {
			advance, token, err := split(data, atEOF)

			skip := errors.Is(err, ErrContinue)
			if !skip && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return total + advance, token, err
			}

			// an ErrContinue that does not advance would spin forever
			if skip && advance == 0 {
				return total, nil, nil
			}

			data = data[advance:]
			total += advance
		}
	}
}
