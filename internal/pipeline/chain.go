/*
Package pipeline runs the two-stage copilot: task breakdown, then code
generation, each a single call to a chat model followed by pattern-based
extraction of the answer.
*/
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/officekit/internal/logger"
)

// Result carries the parsed output together with the raw model text.
// Parse failures travel in ParseErr so callers can tell them from transport errors.
type Result[T any] struct {
	Parsed   T
	Raw      string
	ParseErr error
}

// Chain is a compiled prompt -> model -> parser graph.
type Chain[T any] struct {
	runnable compose.Runnable[map[string]any, Result[T]]
	name     string
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// NewChain compiles a chain. systemTmpl and userTmpl are text/template sources
// rendered with the invocation variables; parse turns the model text into T.
func NewChain[T any](
	ctx context.Context,
	name string,
	chatModel model.BaseChatModel,
	systemTmpl, userTmpl string,
	parse func(string) (T, error),
) (*Chain[T], error) {
	system, err := template.New(name + "-system").Funcs(templateFuncs).Parse(systemTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s system template: %w", name, err)
	}
	user, err := template.New(name + "-user").Funcs(templateFuncs).Parse(userTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s user template: %w", name, err)
	}

	promptFunc := func(ctx context.Context, vars map[string]any) ([]*schema.Message, error) {
		var sys, usr bytes.Buffer
		if err := system.Execute(&sys, vars); err != nil {
			return nil, fmt.Errorf("execute system template: %w", err)
		}
		if err := user.Execute(&usr, vars); err != nil {
			return nil, fmt.Errorf("execute user template: %w", err)
		}
		logger.SetLastPrompt(sys.String() + "\n\n" + usr.String())
		return []*schema.Message{
			schema.SystemMessage(sys.String()),
			schema.UserMessage(usr.String()),
		}, nil
	}

	// Lambda adapter so models without tool binding still fit the graph.
	modelFunc := func(ctx context.Context, in []*schema.Message) (*schema.Message, error) {
		return chatModel.Generate(ctx, in)
	}

	parserFunc := func(ctx context.Context, out *schema.Message) (Result[T], error) {
		if out == nil {
			return Result[T]{}, fmt.Errorf("%s: model returned no message", name)
		}
		parsed, perr := parse(out.Content)
		return Result[T]{Parsed: parsed, Raw: out.Content, ParseErr: perr}, nil
	}

	graph := compose.NewGraph[map[string]any, Result[T]]()
	_ = graph.AddLambdaNode("prompt", compose.InvokableLambda(promptFunc))
	_ = graph.AddLambdaNode("model", compose.InvokableLambda(modelFunc))
	_ = graph.AddLambdaNode("parser", compose.InvokableLambda(parserFunc))
	_ = graph.AddEdge(compose.START, "prompt")
	_ = graph.AddEdge("prompt", "model")
	_ = graph.AddEdge("model", "parser")
	_ = graph.AddEdge("parser", compose.END)

	runnable, err := graph.Compile(ctx, compose.WithGraphName(name))
	if err != nil {
		return nil, fmt.Errorf("compile %s chain: %w", name, err)
	}
	return &Chain[T]{runnable: runnable, name: name}, nil
}

// Invoke runs the chain once and reports how long it took.
func (c *Chain[T]) Invoke(ctx context.Context, vars map[string]any) (Result[T], time.Duration, error) {
	start := time.Now()
	res, err := c.runnable.Invoke(ctx, vars)
	elapsed := time.Since(start)
	if err != nil {
		return Result[T]{}, elapsed, fmt.Errorf("%s: %w", c.name, err)
	}
	return res, elapsed, nil
}
