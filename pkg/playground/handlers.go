package playground

import (
	"context"
	"fmt"

	"github.com/sigweihq/atomexplay/pkg/atomexclient"
	"github.com/sigweihq/atomexplay/pkg/types"
)

func (p *Playground) helpCommand(_ context.Context, _ Args) error {
	p.printHelp()
	return nil
}

func (p *Playground) exitCommand(_ context.Context, _ Args) error {
	return errExit
}

func (p *Playground) getSymbolsCommand(ctx context.Context, _ Args) error {
	symbols, err := p.anonymous.MarketData.GetSymbols(ctx)
	if err != nil {
		return err
	}
	p.printSymbols(symbols)
	return nil
}

func (p *Playground) getOrderBookCommand(ctx context.Context, args Args) error {
	book, err := p.anonymous.MarketData.GetOrderBook(ctx, args.String("symbol"))
	if err != nil {
		return err
	}
	p.printOrderBook(book)
	return nil
}

func (p *Playground) getOrdersCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}
	orders, err := session.GetOrders(ctx, nil)
	if err != nil {
		return err
	}
	p.printOrders(orders)
	return nil
}

func (p *Playground) getOrderCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}
	order, err := session.GetOrder(ctx, args.Int64("orderId"))
	if err != nil {
		return err
	}
	return p.printJSON(order)
}

func (p *Playground) createOrderCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}

	draft := &atomexclient.OrderDraft{
		Symbol: args.String("symbol"),
		Price:  args.Decimal("price"),
		Qty:    args.Decimal("qty"),
		Side:   args.String("side"),
		Type:   args.String("orderType"),
	}
	if args.Has("receivingAddress") || args.Has("rewardForRedeem") || args.Has("lockTime") {
		draft.Requisites = &types.Requisites{
			ReceivingAddress: args.String("receivingAddress"),
			RewardForRedeem:  args.Decimal("rewardForRedeem"),
			LockTime:         args.Int64("lockTime"),
		}
	}

	response, err := session.CreateOrder(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "The %d order is created\n", response.OrderID)
	return nil
}

func (p *Playground) cancelOrderCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}
	orderID := args.Int64("orderId")
	canceled, err := session.CancelOrder(ctx, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Result: Is the %d order canceled? %t\n", orderID, canceled)
	return nil
}

func (p *Playground) getSwapsCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}
	swaps, err := session.GetSwaps(ctx, nil)
	if err != nil {
		return err
	}
	p.printSwaps(swaps)
	return nil
}

func (p *Playground) getSwapCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}
	swap, err := session.GetSwap(ctx, args.Int64("swapId"))
	if err != nil {
		return err
	}
	return p.printJSON(swap)
}

func (p *Playground) initiateSwapCommand(ctx context.Context, args Args) error {
	session, ok, err := p.session(args)
	if !ok || err != nil {
		return err
	}

	opts := atomexclient.InitiateSwapOptions{
		ExpirationMinutes: args.Int("expirationMinutes"),
		Secret:            args.String("secret"),
	}
	if args.Has("rewardForRedeem") {
		reward := args.Decimal("rewardForRedeem")
		opts.RewardForRedeem = &reward
	}

	initiation, err := session.InitiateSwap(ctx, args.Int64("swapId"), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "The %d swap is initiated\n", initiation.SwapID)
	return p.printJSON(initiation)
}

func (p *Playground) printUsersCommand(_ context.Context, _ Args) error {
	p.printUsers()
	return nil
}

func (p *Playground) printAtomexClientsCommand(_ context.Context, _ Args) error {
	p.printClients()
	return nil
}

func (p *Playground) authenticateCommand(ctx context.Context, args Args) error {
	client, ok := p.lookupClient(args)
	if !ok {
		return nil
	}
	if err := client.Authenticate(ctx); err != nil {
		return err
	}

	authentication, err := client.Authentication()
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "The %s [%s] user is authenticated\n", client.User().Name(), client.User().ID())
	return p.printAuthentication(authentication)
}

// lookupClient resolves the userId and chain arguments, reporting a missing client on the output
func (p *Playground) lookupClient(args Args) (*atomexclient.Client, bool) {
	userID, chain := args.String("userId"), args.String("chain")
	client, ok := p.Client(userID, chain)
	if !ok {
		fmt.Fprintf(p.out, "Client not found by the %s id\n", atomexclient.ClientID(userID, chain))
	}
	return client, ok
}

// session returns the trading session of the addressed client.
// ok is false when the client does not exist, which is already reported.
func (p *Playground) session(args Args) (*atomexclient.Session, bool, error) {
	client, ok := p.lookupClient(args)
	if !ok {
		return nil, false, nil
	}
	session, err := client.Session()
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", client.ID(), err)
	}
	return session, true, nil
}
