package playground

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sigweihq/atomexplay/pkg/atomexclient"
	"github.com/sigweihq/atomexplay/pkg/types"
)

func (p *Playground) table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func row(w *tabwriter.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprint(cell)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func (p *Playground) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

func (p *Playground) printHelp() {
	fmt.Fprintln(p.out, "\nAvailable commands:")
	for _, command := range p.commands {
		fmt.Fprintf(p.out, " * %-20s %s\n", strings.Join(command.Aliases, ", "), command.Description)
		if len(command.Params) > 0 {
			fmt.Fprintf(p.out, "   %-20s usage: %s\n", "", command.Usage())
		}
	}
}

func (p *Playground) printSymbols(symbols []types.Symbol) {
	w := p.table("SYMBOL", "MINIMUM QTY")
	for _, symbol := range symbols {
		row(w, symbol.Name, symbol.MinimumQty)
	}
	w.Flush()
}

// printOrderBook prints asks above bids, both from the highest price down
func (p *Playground) printOrderBook(book *types.OrderBook) {
	fmt.Fprintf(p.out, "%s order book (update %d)\n", book.Symbol, book.UpdateID)

	entries := slices.Clone(book.Entries)
	slices.SortStableFunc(entries, func(a, b types.OrderBookEntry) int {
		if a.Side != b.Side {
			if a.Side == types.SideSell {
				return -1
			}
			return 1
		}
		return b.Price.Cmp(a.Price)
	})

	w := p.table("SIDE", "PRICE", "QTY", "ORDERS")
	for _, entry := range entries {
		row(w, entry.Side, entry.Price, entry.Qty(), len(entry.QtyProfile))
	}
	w.Flush()
}

func (p *Playground) printOrders(orders []types.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(p.out, "No orders")
		return
	}
	w := p.table("ID", "SYMBOL", "SIDE", "PRICE", "QTY", "LEAVE QTY", "TYPE", "STATUS", "TIME")
	for _, order := range orders {
		row(w, order.ID, order.Symbol, order.Side, order.Price, order.Qty, order.LeaveQty,
			order.Type, order.Status, order.TimeStamp.Format(time.DateTime))
	}
	w.Flush()
}

func (p *Playground) printSwaps(swaps []types.Swap) {
	if len(swaps) == 0 {
		fmt.Fprintln(p.out, "No swaps")
		return
	}
	w := p.table("ID", "SYMBOL", "SIDE", "PRICE", "QTY", "INITIATOR", "USER", "COUNTERPARTY", "TIME")
	for _, swap := range swaps {
		row(w, swap.ID, swap.Symbol, swap.Side, swap.Price, swap.Qty, swap.IsInitiator,
			swap.User.Status, swap.CounterParty.Status, swap.TimeStamp.Format(time.DateTime))
	}
	w.Flush()
}

func (p *Playground) printUsers() {
	w := p.table("ID", "NAME", "CHAIN", "SECRET KEY")
	for _, user := range p.users {
		keys := user.MaskedSecretKeys()
		for _, chain := range user.Chains() {
			row(w, user.ID(), user.Name(), chain, keys[chain])
		}
	}
	w.Flush()
}

func (p *Playground) printClients() {
	clients := p.Clients()
	slices.SortStableFunc(clients, func(a, b *atomexclient.Client) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	w := p.table("ID", "USER ID", "CHAIN", "NETWORK", "ADDRESS", "AUTHENTICATED")
	for _, client := range clients {
		address, err := client.UserAddress()
		if err != nil {
			address = "-"
		}
		row(w, client.ID(), client.User().ID(), client.Chain(), client.Network(), address, client.IsAuthenticated())
	}
	w.Flush()
}

// printAuthentication prints the token exchange and the session token's claims
func (p *Playground) printAuthentication(authentication *atomexclient.Authentication) error {
	if err := p.printJSON(authentication); err != nil {
		return err
	}

	claims, err := authentication.Response.Claims()
	if err != nil {
		// Opaque tokens are still usable; only the claims are not shown
		p.logger.Debug("session token claims unavailable", "error", err)
		return nil
	}
	if claims.Subject != "" {
		fmt.Fprintf(p.out, "Token subject: %s\n", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		fmt.Fprintf(p.out, "Token expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}
