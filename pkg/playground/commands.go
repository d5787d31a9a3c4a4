package playground

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sigweihq/atomexplay/pkg/types"
	"github.com/sigweihq/atomexplay/pkg/utils"
)

// ErrInvalidArgument is wrapped by every argument parsing failure
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a command argument that could not be parsed
type ArgumentError struct {
	Command string
	Param   string
	Value   string
	Reason  string
}

func (e *ArgumentError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s %q: %s", e.Command, e.Param, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

type paramKind int

const (
	kindString paramKind = iota
	kindID
	kindDecimal
	kindInt
	kindSide
	kindOrderType
	kindMinutes
)

// Param describes one positional command argument
type Param struct {
	Name     string
	Kind     paramKind
	Optional bool
}

func required(name string, kind paramKind) Param { return Param{Name: name, Kind: kind} }

func optional(name string, kind paramKind) Param {
	return Param{Name: name, Kind: kind, Optional: true}
}

// Command is an entry of the static command table
type Command struct {
	Aliases     []string
	Params      []Param
	Description string
	Run         func(p *Playground, ctx context.Context, args Args) error
}

// Usage renders the aliases and parameters, optional ones in brackets
func (c *Command) Usage() string {
	parts := []string{strings.Join(c.Aliases, ", ")}
	for _, param := range c.Params {
		if param.Optional {
			parts = append(parts, "["+param.Name+"]")
		} else {
			parts = append(parts, "<"+param.Name+">")
		}
	}
	return strings.Join(parts, " ")
}

func (c *Command) matches(name string) bool {
	for _, alias := range c.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// Args holds parsed arguments by parameter name; optional ones may be absent
type Args map[string]any

func (a Args) String(name string) string {
	value, _ := a[name].(string)
	return value
}

func (a Args) Int64(name string) int64 {
	value, _ := a[name].(int64)
	return value
}

func (a Args) Int(name string) int {
	value, _ := a[name].(int)
	return value
}

func (a Args) Decimal(name string) decimal.Decimal {
	value, _ := a[name].(decimal.Decimal)
	return value
}

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// parse converts whitespace-separated tokens into typed arguments
func (c *Command) parse(tokens []string) (Args, error) {
	name := c.Aliases[0]
	if len(tokens) > len(c.Params) {
		return nil, &ArgumentError{Command: name, Reason: fmt.Sprintf("too many arguments, usage: %s", c.Usage())}
	}

	args := make(Args, len(tokens))
	for i, param := range c.Params {
		if i >= len(tokens) {
			if !param.Optional {
				return nil, &ArgumentError{Command: name, Reason: fmt.Sprintf("missing %s, usage: %s", param.Name, c.Usage())}
			}
			continue
		}

		value, err := parseValue(param.Kind, tokens[i])
		if err != nil {
			return nil, &ArgumentError{Command: name, Param: param.Name, Value: tokens[i], Reason: err.Error()}
		}
		args[param.Name] = value
	}
	return args, nil
}

func parseValue(kind paramKind, token string) (any, error) {
	switch kind {
	case kindID:
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("expected a positive integer id")
		}
		return id, nil
	case kindDecimal:
		value, err := decimal.NewFromString(token)
		if err != nil {
			return nil, errors.New("expected a decimal number")
		}
		return value, nil
	case kindInt:
		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, errors.New("expected an integer")
		}
		return value, nil
	case kindSide:
		for _, side := range []string{types.SideBuy, types.SideSell} {
			if strings.EqualFold(token, side) {
				return side, nil
			}
		}
		return nil, errors.New("expected Buy or Sell")
	case kindOrderType:
		for _, orderType := range orderTypes {
			if strings.EqualFold(token, orderType) {
				return orderType, nil
			}
		}
		return nil, fmt.Errorf("expected one of %s", strings.Join(orderTypes, ", "))
	case kindMinutes:
		// Non-numeric durations fall back to the default lock window
		minutes, err := utils.ParseExpirationMinutes(token)
		if err != nil {
			return nil, err
		}
		return minutes, nil
	default:
		return token, nil
	}
}

var orderTypes = []string{
	types.OrderTypeReturn,
	types.OrderTypeFillOrKill,
	types.OrderTypeSolidFillOrKill,
	types.OrderTypeImmediateOrCancel,
}

// userChainParams are the leading arguments of every per-client command
var userChainParams = []Param{required("userId", kindString), required("chain", kindString)}

func withUserChain(params ...Param) []Param {
	return append(append([]Param{}, userChainParams...), params...)
}

func defaultCommands() []*Command {
	return []*Command{
		{
			Aliases:     []string{"h", "help"},
			Description: "Help",
			Run:         (*Playground).helpCommand,
		},
		{
			Aliases:     []string{"exit"},
			Description: "Exiting the program",
			Run:         (*Playground).exitCommand,
		},
		{
			Aliases:     []string{"getSymbols"},
			Description: "Get tradable symbols",
			Run:         (*Playground).getSymbolsCommand,
		},
		{
			Aliases:     []string{"getOrderBook"},
			Params:      []Param{required("symbol", kindString)},
			Description: "Get order book and print it",
			Run:         (*Playground).getOrderBookCommand,
		},
		{
			Aliases:     []string{"getOrders"},
			Params:      withUserChain(),
			Description: "Get user orders. chain: tez | eth",
			Run:         (*Playground).getOrdersCommand,
		},
		{
			Aliases:     []string{"getOrder"},
			Params:      withUserChain(required("orderId", kindID)),
			Description: "Get a user order",
			Run:         (*Playground).getOrderCommand,
		},
		{
			Aliases: []string{"createOrder"},
			Params: withUserChain(
				required("symbol", kindString),
				required("price", kindDecimal),
				required("qty", kindDecimal),
				required("side", kindSide),
				required("orderType", kindOrderType),
				optional("receivingAddress", kindString),
				optional("rewardForRedeem", kindDecimal),
				optional("lockTime", kindInt),
			),
			Description: "Create an order with proof of funds",
			Run:         (*Playground).createOrderCommand,
		},
		{
			Aliases:     []string{"cancelOrder"},
			Params:      withUserChain(required("orderId", kindID)),
			Description: "Cancel a user order",
			Run:         (*Playground).cancelOrderCommand,
		},
		{
			Aliases:     []string{"getSwaps"},
			Params:      withUserChain(),
			Description: "Get user swaps",
			Run:         (*Playground).getSwapsCommand,
		},
		{
			Aliases:     []string{"getSwap"},
			Params:      withUserChain(required("swapId", kindID)),
			Description: "Get a user swap",
			Run:         (*Playground).getSwapCommand,
		},
		{
			Aliases: []string{"initiateSwap"},
			Params: withUserChain(
				required("swapId", kindID),
				optional("rewardForRedeem", kindDecimal),
				optional("expirationMinutes", kindMinutes),
				optional("secret", kindString),
			),
			Description: "Lock the user's side of a swap in the swap contract",
			Run:         (*Playground).initiateSwapCommand,
		},
		{
			Aliases:     []string{"printUsers"},
			Description: "Print a list of the current users",
			Run:         (*Playground).printUsersCommand,
		},
		{
			Aliases:     []string{"printAtomexClients"},
			Description: "Print a list of the atomex clients",
			Run:         (*Playground).printAtomexClientsCommand,
		},
		{
			Aliases:     []string{"auth", "authenticate"},
			Params:      withUserChain(),
			Description: "Authenticate a user",
			Run:         (*Playground).authenticateCommand,
		},
	}
}
