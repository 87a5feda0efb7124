package filter

import (
	"strings"

	"github.com/semihalev/ucache/config"
	"github.com/semihalev/zlog/v2"
)

// Names lists the accepted filter token names.
var Names = []string{"type", "name", "ip", "net", "and", "or", "not"}

type leafFunc func(arg string) (Filter, error)

var leaves = map[string]leafFunc{
	"type": func(arg string) (Filter, error) { return ByType{Type: arg}, nil },
	"name": func(arg string) (Filter, error) { return NewByName(arg) },
	"ip":   func(arg string) (Filter, error) { return NewByIP(arg) },
	"net":  func(arg string) (Filter, error) { return NewByNet(arg) },
}

// Parse builds a filter from tokens in reverse polish notation. Each token is
// either <name> or <name>:<argument>. Leaves push a filter on the stack,
// "and" and "or" pop two and "not" pops one. An empty token list yields
// AlwaysTrue; anything that does not leave exactly one filter on the stack
// is a configuration error.
func Parse(tokens []string) (Filter, error) {
	var stack []Filter

	pop := func() Filter {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f
	}

	for _, token := range tokens {
		name, arg, hasArg := strings.Cut(token, ":")

		if leaf, ok := leaves[name]; ok {
			if !hasArg {
				return nil, config.Errorf("filter %q requires an argument", name)
			}

			f, err := leaf(arg)
			if err != nil {
				return nil, config.Wrap("invalid filter "+token, err)
			}

			stack = append(stack, f)
			continue
		}

		switch name {
		case "and", "or":
			if hasArg {
				return nil, config.Errorf("filter %q takes no argument", name)
			}
			if len(stack) < 2 {
				return nil, config.Errorf("filter %q needs two operands, have %d", name, len(stack))
			}

			top, next := pop(), pop()
			if name == "and" {
				stack = append(stack, And{Filters: []Filter{next, top}})
			} else {
				stack = append(stack, Or{Filters: []Filter{next, top}})
			}
		case "not":
			if hasArg {
				return nil, config.Errorf("filter %q takes no argument", name)
			}
			if len(stack) < 1 {
				return nil, config.Errorf("filter %q needs an operand", name)
			}

			stack = append(stack, Not{Filter: pop()})
		default:
			return nil, config.Errorf("unknown filter %q", name)
		}
	}

	switch len(stack) {
	case 0:
		return AlwaysTrue{}, nil
	case 1:
		zlog.Debug("Filter built", "filter", stack[0].String())
		return stack[0], nil
	default:
		return nil, config.Errorf("incomplete filter expression, %d operands left", len(stack))
	}
}
