// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Content prints one fetched body under a numbered banner. Bodies that are
// not valid UTF-8 are printed with %q so the terminal is not garbled.
func Content(w io.Writer, n int, body []byte) error {
	if _, err := fmt.Fprintf(w, "[Content %d]\n", n); err != nil {
		return err
	}

	var err error
	if utf8.Valid(body) {
		_, err = fmt.Fprintln(w, string(body))
	} else {
		_, err = fmt.Fprintf(w, "%q\n", body)
	}
	return err
}
