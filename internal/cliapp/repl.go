package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gofast-cache/internal/client"
	"gofast-cache/internal/domain"
)

// Run drives the interactive REPL: print a prompt, read one line, parse
// it, dispatch it against c, render the result, repeat. It returns when
// the user types exit or in reaches EOF.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, prompt string, c client.Client) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, err := ParseLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if cmd.Verb == VerbExit {
			return nil
		}

		resp, err := dispatch(ctx, c, cmd)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		fmt.Fprintln(out, render(cmd.Verb, resp))
	}
}

func dispatch(ctx context.Context, c client.Client, cmd Command) (domain.Response, error) {
	switch cmd.Verb {
	case VerbGet:
		key, err := domain.ParseKey(cmd.Key)
		if err != nil {
			return domain.Response{}, err
		}
		return c.Get(ctx, key)

	case VerbSet:
		key, err := domain.ParseKey(cmd.Key)
		if err != nil {
			return domain.Response{}, err
		}
		value, err := domain.ParseValue(cmd.Value)
		if err != nil {
			return domain.Response{}, err
		}
		return c.Set(ctx, key, value, domain.NoTTL)

	case VerbDelete:
		key, err := domain.ParseKey(cmd.Key)
		if err != nil {
			return domain.Response{}, err
		}
		return c.Delete(ctx, key)

	case VerbFlush:
		return c.Flush(ctx)

	default:
		return domain.Response{}, fmt.Errorf("unhandled verb")
	}
}

func render(verb Verb, resp domain.Response) string {
	switch verb {
	case VerbGet:
		body := resp.Body.(domain.GetBody)
		if !body.Found {
			return "(nil)"
		}
		return body.Value.String()

	case VerbSet:
		if resp.Status == domain.StatusKeyExists {
			return "(error) key exists"
		}
		return "OK"

	case VerbDelete:
		if resp.Status == domain.StatusKeyNotFound {
			return "(error) key not found"
		}
		return "OK"

	case VerbFlush:
		return "OK"

	default:
		return resp.Status.String()
	}
}
