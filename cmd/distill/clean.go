package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/distill"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	in := deps.Stdin
	if c.File != "" && c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	md, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}

	_, err = io.WriteString(deps.Stdout, distill.Clean(string(md)))
	return err
}
