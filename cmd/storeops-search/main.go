// Command storeops-search runs one search against a storeops server the way
// the search screens do: default filter lines, previous search restore,
// chips, paging and, for store services, grid edits.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/config"
	"github.com/baseplate/storeops/internal/apiclient"
	"github.com/baseplate/storeops/internal/core/auth"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/storeservice"
	"github.com/baseplate/storeops/internal/logging"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, " ") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

type options struct {
	filters []string
	edits   []string
	sort    string
	page    int
	columns string
	restore bool
}

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "storeops-search: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	baseURL := flag.String("url", "http://localhost:8080", "storeops server URL")
	token := flag.String("token", "", "Bearer token")
	secret := flag.String("secret", "", "JWT secret used to mint a token when -token is empty")
	issuer := flag.String("issuer", "storeops", "JWT issuer used with -secret")
	user := flag.String("user", "", "User id put in a minted token")
	screen := flag.String("screen", receipt.Screen, "Screen to search: receipts or store-services")
	pageSize := flag.Int("size", search.DefaultPageSize, "Page size")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	var opts options
	var filters, edits multiFlag
	flag.Var(&filters, "f", "Filter line column:comparator[:value], repeatable. Lists are a,b and ranges from..to")
	flag.Var(&edits, "set", "Grid edit row:column=value, repeatable (store-services only)")
	flag.StringVar(&opts.sort, "sort", "", "Sort field, optionally suffixed :ASC or :DESC")
	flag.IntVar(&opts.page, "page", 0, "Page number, starting at 0")
	flag.StringVar(&opts.columns, "columns", "", "Comma separated columns to display; saved for the next run")
	flag.BoolVar(&opts.restore, "restore", false, "Start from the previous search of the screen")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	opts.filters, opts.edits = filters, edits

	logger, err := logging.Setup(config.LogConfig{Level: *logLevel})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *token == "" && *secret != "" {
		userID, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("-user: %w", err)
		}
		*token, err = auth.NewService(&config.JWTConfig{Secret: *secret, Issuer: *issuer}).
			IssueToken(userID, "storeops-search", time.Hour)
		if err != nil {
			return err
		}
	}
	client := apiclient.New(apiclient.Config{BaseURL: strings.TrimRight(*baseURL, "/"), Token: *token})
	notifier := search.NotifierFunc(func(m search.Message) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", m.Severity, m.Text)
	})

	switch *screen {
	case receipt.Screen:
		if len(opts.edits) > 0 {
			return errors.New("receipts have no grid columns")
		}
		return run(ctx, search.SessionConfig[*receipt.ReceiptOfMaterial]{
			Screen:   receipt.Screen,
			Columns:  receipt.Columns(),
			Search:   client.SearchReceipts,
			Store:    client,
			Notifier: notifier,
			PageSize: *pageSize,
			Logger:   logger,
		}, opts)
	case storeservice.Screen:
		forms := form.NewFactory()
		storeservice.RegisterForms(forms)
		return run(ctx, search.SessionConfig[*storeservice.StoreService]{
			Screen:  storeservice.Screen,
			Columns: storeservice.Columns(),
			Search:  client.SearchStoreServices,
			Save:    client.PatchStoreServices,
			Grid: func(ctx context.Context, row *storeservice.StoreService) (*form.Group, error) {
				return forms.Group(ctx, storeservice.FormStoreService, row, form.Options{Mode: form.AccessEdit, Scope: form.ScopeMassUpdate})
			},
			RowID:    func(row *storeservice.StoreService) any { return row.ID },
			Store:    client,
			Notifier: notifier,
			PageSize: *pageSize,
			Logger:   logger,
		}, opts)
	}
	return fmt.Errorf("unknown screen %q", *screen)
}

func run[T any](ctx context.Context, cfg search.SessionConfig[T], opts options) error {
	s, err := search.NewSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.restore {
		if err := s.Restore(ctx); err != nil {
			return err
		}
	}
	for _, f := range opts.filters {
		if err := applyFilter(s.Filter(), f); err != nil {
			return err
		}
	}
	if opts.columns != "" {
		if err := s.SetDisplayedColumns(ctx, strings.Split(opts.columns, ",")); err != nil {
			return err
		}
	}

	sort, err := parseSort(opts.sort, cfg.Columns)
	if err != nil {
		return err
	}
	if sort != nil || opts.page > 0 {
		err = s.ChangePage(ctx, opts.page, sort)
	} else {
		err = s.Search(ctx)
	}
	if err != nil {
		return err
	}

	if len(opts.edits) > 0 {
		if err := s.SetGridMode(ctx, true); err != nil {
			return err
		}
		for _, e := range opts.edits {
			if err := applyEdit(s, e); err != nil {
				return err
			}
		}
		if _, err := s.SaveGrid(ctx); err != nil {
			return err
		}
	}

	fmt.Println(render(cfg.Columns, s.DisplayedColumns(), s.Chips(), s.Content(), s.Page(), s.Total()))
	return nil
}

// applyFilter fills the default line of the column when there is one,
// otherwise it adds a line.
func applyFilter(f *search.Filter, arg string) error {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("filter %q: want column:comparator[:value]", arg)
	}
	var e *search.LineEditor
	for i := range f.Len() {
		if l := f.Editor(i).Line(); l.Column != nil && l.Column.Name == parts[0] && !l.Populated() {
			e = f.Editor(i)
			break
		}
	}
	if e == nil {
		e = f.Add()
		if err := e.SelectColumn(parts[0]); err != nil {
			return fmt.Errorf("filter %q: %w", arg, err)
		}
	}
	if err := e.SelectComparator(parts[1]); err != nil {
		return fmt.Errorf("filter %q: %w", arg, err)
	}
	if len(parts) == 3 {
		l := e.Line()
		e.SetValue(parseValue(l.Column, l.Comparator, parts[2]))
	}
	return nil
}

func parseValue(c *search.Column, cmp *search.Comparator, raw string) any {
	switch {
	case cmp.Range:
		from, to, _ := strings.Cut(raw, "..")
		return search.Range{From: scalar(c, from), To: scalar(c, to)}
	case cmp.Multiple:
		var out []any
		for _, v := range strings.Split(raw, ",") {
			out = append(out, scalar(c, v))
		}
		return out
	}
	return scalar(c, raw)
}

func scalar(c *search.Column, raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	switch c.Type {
	case search.TypeInteger, search.TypeDecimal:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	case search.TypeBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

// applyEdit changes one field of a result row and selects the row.
func applyEdit[T any](s *search.Session[T], arg string) error {
	target, value, ok := strings.Cut(arg, "=")
	row, column, ok2 := strings.Cut(target, ":")
	if !ok || !ok2 {
		return fmt.Errorf("edit %q: want row:column=value", arg)
	}
	i, err := strconv.Atoi(row)
	if err != nil {
		return fmt.Errorf("edit %q: %w", arg, err)
	}
	g := s.Row(i)
	if g == nil {
		return fmt.Errorf("edit %q: no row %d on this page", arg, i)
	}
	f, ok := g.Get(column).(*form.Field)
	if !ok || !f.Enabled() {
		return fmt.Errorf("edit %q: %s is not editable", arg, column)
	}

	var v any
	if value != "" {
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
	}
	if err := f.EditJSON(v); err != nil {
		return fmt.Errorf("edit %q: %w", arg, err)
	}
	if !g.Valid() {
		slog.Warn("row is invalid and will not be saved", "row", i, "errors", form.Report(g))
	}
	s.Select(i, true)
	return nil
}

func parseSort(arg string, columns search.Columns) (*search.Sort, error) {
	if arg == "" {
		return nil, nil
	}
	name, dir, _ := strings.Cut(arg, ":")
	c := columns.ByName(name)
	if c == nil {
		return nil, fmt.Errorf("sort: %w: %s", search.ErrUnknownColumn, name)
	}
	sort := search.Sort{Field: c.Field(), Direction: search.Asc}
	if dir != "" {
		if sort.Direction = search.ParseDirection(dir); sort.Direction == "" {
			return nil, fmt.Errorf("sort: unknown direction %q", dir)
		}
	}
	return &sort, nil
}
