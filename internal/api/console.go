// Package api provides handlers for external interfaces
package api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/abelzeko/treehouse/internal/entities"
	"github.com/abelzeko/treehouse/internal/usecases"
)

const namePrompt = "Hello, what's your name? (Leave empty and press ENTER to quit)"

// Console handles a treehouse door session over a line-oriented text stream
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	useCase *usecases.TreehouseUseCase
}

type lineResult struct {
	line string
	err  error
}

// NewConsole creates a new console handler
func NewConsole(in io.Reader, out io.Writer, useCase *usecases.TreehouseUseCase) *Console {
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		useCase: useCase,
	}
}

// Run asks for names until an empty one is given, then prints the final visitor list.
// End of input counts as an empty name. Cancelling ctx stops a pending read.
func (c *Console) Run(ctx context.Context) error {
	log.Println("Console is now waiting for visitors...")

	if err := ctx.Err(); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	lines := c.readLines(stop)

	for {
		c.println(namePrompt)
		name, err := c.readName(ctx, lines)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("failed to read name: %w", err)
		}

		c.println(fmt.Sprintf("Hello %s", name))
		c.println(fmt.Sprintf("%q", name))

		res, err := c.useCase.CheckIn(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if res.Done {
			break
		}
		for _, line := range res.Lines {
			c.println(line)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	visitors, err := c.useCase.Visitors(ctx)
	if err != nil {
		return fmt.Errorf("failed to list visitors: %w", err)
	}
	c.println("The final list of visitors:")
	c.println(entities.FormatVisitorList(visitors))
	return nil
}

// readLines reads the input in its own goroutine so a blocked read never holds up
// cancellation. The channel is closed at end of input.
func (c *Console) readLines(stop <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		defer close(lines)
		send := func(r lineResult) bool {
			select {
			case lines <- r:
				return true
			case <-stop:
				return false
			}
		}

		for {
			line, err := c.in.ReadString('\n')
			if line != "" && !send(lineResult{line: line}) {
				return
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				send(lineResult{err: err})
				return
			}
		}
	}()
	return lines
}

func (c *Console) readName(ctx context.Context, lines <-chan lineResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-lines:
		if !ok {
			return "", nil
		}
		if r.err != nil {
			return "", r.err
		}
		return usecases.NormalizeName(r.line), nil
	}
}

func (c *Console) println(s string) {
	if _, err := fmt.Fprintln(c.out, s); err != nil {
		log.Printf("Error writing to console: %v", err)
	}
}
