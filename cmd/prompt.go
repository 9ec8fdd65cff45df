package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

type orderInput struct {
	Symbol      string
	Side        string
	Type        string
	Quantity    string
	Price       string
	StopPrice   string
	Leverage    int
	LeverageSet bool
}

func (in orderInput) complete() bool {
	return in.Symbol != "" && in.Side != "" && in.Quantity != "" && in.LeverageSet
}

// collectInput takes the order from flags and prompts for whatever is missing.
// With --interactive every field is prompted, flag values becoming defaults.
func collectInput(c *cli.Context, out io.Writer) (orderInput, error) {
	in := orderInput{
		Symbol:      c.String("symbol"),
		Side:        c.String("side"),
		Type:        c.String("type"),
		Quantity:    c.String("quantity"),
		Price:       c.String("price"),
		StopPrice:   c.String("stop-price"),
		Leverage:    c.Int("leverage"),
		LeverageSet: c.IsSet("leverage"),
	}
	if in.complete() && !c.Bool("interactive") {
		return in, nil
	}
	return promptInput(c.App.Reader, out, in, c.Bool("interactive"))
}

// promptInput fills the fields of in that are still empty. Suggested
// defaults are only offered when all is set; otherwise every missing field
// needs an answer.
func promptInput(r io.Reader, w io.Writer, in orderInput, all bool) (orderInput, error) {
	p := &prompter{r: bufio.NewReader(r), w: w, all: all}

	var err error
	if in.Symbol, err = p.ask("Symbol", in.Symbol, "BTCUSDT"); err != nil {
		return in, err
	}
	if in.Side, err = p.ask("Side (BUY/SELL)", in.Side, "BUY"); err != nil {
		return in, err
	}
	if in.Type, err = p.ask("Type (MARKET/LIMIT/STOP_LIMIT)", in.Type, "MARKET"); err != nil {
		return in, err
	}
	if in.Quantity, err = p.ask("Quantity", in.Quantity, ""); err != nil {
		return in, err
	}

	orderType := strings.ToUpper(strings.TrimSpace(in.Type))
	if orderType == "LIMIT" || orderType == "STOP_LIMIT" {
		if in.Price, err = p.ask("Limit price", in.Price, ""); err != nil {
			return in, err
		}
	}
	if orderType == "STOP_LIMIT" {
		if in.StopPrice, err = p.ask("Stop price", in.StopPrice, ""); err != nil {
			return in, err
		}
	}

	current := ""
	if in.LeverageSet {
		current = strconv.Itoa(in.Leverage)
	}
	lev, err := p.ask("Leverage", current, "20")
	if err != nil {
		return in, err
	}
	in.Leverage, err = strconv.Atoi(lev)
	if err != nil {
		return in, fmt.Errorf("leverage must be a whole number, got %q", lev)
	}
	in.LeverageSet = true
	return in, nil
}

type prompter struct {
	r   *bufio.Reader
	w   io.Writer
	all bool
}

// ask returns current untouched unless it is empty or every field is being
// prompted. An empty answer keeps current, then the default (interactive
// only). A missing answer with nothing to fall back on is an error.
func (p *prompter) ask(label, current, def string) (string, error) {
	if current != "" && !p.all {
		return current, nil
	}
	if !p.all {
		def = ""
	}
	if current != "" {
		def = current
	}

	if def != "" {
		fmt.Fprintf(p.w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.w, "%s: ", label)
	}

	line, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	eof := err != nil
	line = strings.TrimSpace(line)
	switch {
	case line != "":
		return line, nil
	case current != "":
		return current, nil
	case def != "" && !eof:
		return def, nil
	}
	return "", fmt.Errorf("%s is required", strings.ToLower(label))
}
