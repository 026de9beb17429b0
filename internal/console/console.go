// Package console is the interactive terminal front end of the sandbox.
// It only reads session state and calls PlaceOrder/Ask; all trading
// rules live in the core services.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/internal/services/executor"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	buyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	sellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const helpText = `commands:
  price              show the current simulated price
  wallet             show balances and equity
  history            list recent transactions
  buy <usd>          buy BTC for the given USD amount
  sell <btc>         sell the given BTC amount
  ask <question>     ask the AI assistant
  help               show this help
  quit               exit`

// Console runs a line-oriented trade terminal over a session.
type Console struct {
	session *internal.Session
	in      io.Reader
	out     io.Writer
}

// New creates a console reading commands from in and printing to out.
func New(session *internal.Session, in io.Reader, out io.Writer) *Console {
	return &Console{session: session, in: in, out: out}
}

// Run processes commands until quit, EOF or ctx cancellation. Input is
// read on a separate goroutine so cancellation does not wait for the
// next keypress.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, accentStyle.Render("BitFlow paper trading"))
	fmt.Fprintln(c.out, faintStyle.Render("type 'help' for commands"))

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, accentStyle.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		command, argument := splitCommand(line)
		switch command {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(c.out, faintStyle.Render(helpText))
		case "price":
			fmt.Fprintf(c.out, "current price: %s\n", accentStyle.Render("$"+c.session.CurrentPrice().StringFixed(2)))
		case "wallet":
			c.printWallet()
		case "history":
			c.printHistory()
		case "buy":
			c.trade(domain.Buy, argument)
		case "sell":
			c.trade(domain.Sell, argument)
		case "ask":
			c.ask(ctx, argument)
		default:
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("unknown command: %s", command)))
		}
	}
}

func (c *Console) trade(kind domain.TradeKind, rawAmount string) {
	if preview, err := decimal.NewFromString(rawAmount); err == nil && preview.IsPositive() {
		fee := c.session.EstimateFee(kind, preview)
		unit := "BTC"
		if kind == domain.Sell {
			unit = "USD"
		}
		fmt.Fprintln(c.out, faintStyle.Render(fmt.Sprintf("est. network fee (0.1%%, not deducted): %s %s", fee.String(), unit)))
	}

	tx, err := c.session.PlaceOrder(kind, rawAmount)
	if err != nil {
		switch {
		case errors.Is(err, executor.ErrInvalidAmount):
			fmt.Fprintln(c.out, errorStyle.Render("rejected: "+err.Error()))
		case errors.Is(err, executor.ErrInsufficientFunds):
			fmt.Fprintln(c.out, errorStyle.Render("rejected: "+err.Error()))
		default:
			fmt.Fprintln(c.out, errorStyle.Render("order failed: "+err.Error()))
		}
		return
	}

	style := buyStyle
	if tx.Kind == domain.Sell {
		style = sellStyle
	}
	fmt.Fprintln(c.out, style.Render("filled: "+tx.String()))
}

func (c *Console) printWallet() {
	usd, btc := c.session.Wallet().Balances()
	price := c.session.CurrentPrice()
	fmt.Fprintf(c.out, "  USD    %s\n", usd.StringFixed(2))
	fmt.Fprintf(c.out, "  BTC    %s\n", btc.String())
	fmt.Fprintf(c.out, "  equity %s\n", accentStyle.Render("$"+c.session.Wallet().Equity(price).StringFixed(2)))
}

func (c *Console) printHistory() {
	transactions := c.session.Wallet().Transactions()
	if len(transactions) == 0 {
		fmt.Fprintln(c.out, faintStyle.Render("no transactions yet"))
		return
	}
	for _, tx := range transactions {
		style := buyStyle
		if tx.Kind == domain.Sell {
			style = sellStyle
		}
		fmt.Fprintf(c.out, "  %s  %s  %s USD  %s BTC  @ %s\n",
			tx.Timestamp.Format("15:04:05"),
			style.Render(tx.Kind.String()),
			tx.AmountUsd.StringFixed(2),
			tx.AmountBtc.String(),
			tx.PriceAtTime.StringFixed(2))
	}
}

func (c *Console) ask(ctx context.Context, question string) {
	if strings.TrimSpace(question) == "" {
		fmt.Fprintln(c.out, errorStyle.Render("usage: ask <question>"))
		return
	}
	reply := c.session.Advisor().Ask(ctx, question, c.session.Wallet().Summary())
	fmt.Fprintln(c.out, faintStyle.Render(reply))
}

func splitCommand(line string) (command, argument string) {
	parts := strings.SplitN(line, " ", 2)
	command = strings.ToLower(parts[0])
	if len(parts) > 1 {
		argument = strings.TrimSpace(parts[1])
	}
	return command, argument
}
