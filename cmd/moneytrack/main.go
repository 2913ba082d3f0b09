package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneytrack/internal/api"
	"moneytrack/internal/config"
	"moneytrack/internal/core"
	"moneytrack/internal/export"
	"moneytrack/internal/log"
	"moneytrack/internal/movements"
	"moneytrack/internal/notify"
	"moneytrack/internal/report"
	"moneytrack/internal/session"
)

const usage = `usage: moneytrack <command> [flags]

commands:
  login      sign in and persist the session
  logout     clear the persisted session
  list       list movements for a resource
  add        add a movement
  edit       edit a movement by id
  delete     delete a movement by id
  balance    show totals for all kinds and the net balance
  statement  show a category breakdown for a resource
  export     append fetched movements to a Google Sheet
`

func main() {
	// Load .env for local development (ignore errors elsewhere)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     logLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app := &app{cfg: cfg, logger: logger}
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "login":
		err = app.login(ctx, os.Args[2:])
	case "logout":
		err = app.logout(ctx)
	case "list":
		err = app.list(ctx, os.Args[2:])
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "edit":
		err = app.edit(ctx, os.Args[2:])
	case "delete":
		err = app.delete(ctx, os.Args[2:])
	case "balance":
		err = app.balance(ctx, os.Args[2:])
	case "statement":
		err = app.statement(ctx, os.Args[2:])
	case "export":
		err = app.export(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], log.FieldError, err.Error())
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (a *app) sessionStore() (*session.SQLiteStore, error) {
	return session.NewSQLiteStore(a.cfg.SessionDBPath, a.logger)
}

// requireSession loads the persisted session and rejects expired ones.
func (a *app) requireSession(ctx context.Context) (session.Session, *session.SQLiteStore, error) {
	store, err := a.sessionStore()
	if err != nil {
		return session.Session{}, nil, err
	}
	sess, ok, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return session.Session{}, nil, err
	}
	if !ok {
		store.Close()
		return session.Session{}, nil, fmt.Errorf("not signed in: run 'moneytrack login' first")
	}
	if sess.Expired(time.Now()) {
		store.Close()
		return session.Session{}, nil, fmt.Errorf("session expired: run 'moneytrack login' again")
	}
	return sess, store, nil
}

func (a *app) client(sess session.Session) *api.Client {
	return api.NewClient(a.cfg.APIBaseURL, api.StaticToken(sess.Token), api.WithLogger(a.logger))
}

func (a *app) store(resource core.Resource, sess session.Session) *movements.Store {
	notifier := notify.NewLogNotifier(a.logger)
	store := movements.NewStore(resource, a.client(sess), notifier, movements.WithLogger(a.logger))
	store.Init(sess.UserID)
	return store
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("login: -email and -password are required")
	}

	client := api.NewClient(a.cfg.APIBaseURL, nil, api.WithLogger(a.logger))
	creds, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	sess := session.Session{
		Token:    creds.Token,
		UserID:   creds.User.ID,
		Name:     creds.User.Name,
		Email:    creds.User.Email,
		Currency: creds.User.Currency,
	}
	if sess.UserID == "" {
		if sub, err := session.TokenSubject(creds.Token); err == nil {
			sess.UserID = sub
		}
	}
	if expiry, err := session.TokenExpiry(creds.Token); err == nil {
		sess.ExpiresAt = expiry
	}

	store, err := a.sessionStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(ctx, sess); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", sess.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	store, err := a.sessionStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	resource := fs.String("resource", string(core.Transactions), "transactions or debts")
	page := fs.Int("page", 1, "page to fetch")
	limit := fs.Int("limit", a.cfg.PageLimit, "page size")
	category := fs.String("category", "", "filter by category id")
	date := fs.String("date", "", "filter by a single date (YYYY-MM-DD)")
	start := fs.String("start", "", "range start (YYYY-MM-DD)")
	end := fs.String("end", "", "range end (YYYY-MM-DD)")
	granularity := fs.String("granularity", string(core.Day), "day, month or year")
	fs.Parse(args)

	res := core.Resource(*resource)
	if !res.Valid() {
		return fmt.Errorf("list: unknown resource %q", *resource)
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	store := a.store(res, sess)
	filter, err := buildFilter(*date, *start, *end, *granularity, *category)
	if err != nil {
		return err
	}
	store.SetFilter(filter)

	if err := store.FetchPage(ctx, *page, *limit); err != nil {
		return err
	}

	for _, m := range store.Movements() {
		printMovement(res, m)
	}
	if store.IsLastPage() {
		fmt.Println("(end of list)")
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	kind := fs.String("kind", "", "income, expenses, debt or loan")
	concept := fs.String("concept", "", "what the movement was for")
	amount := fs.String("amount", "", "amount in whole currency units")
	category := fs.String("category", core.NoCategory.ID, "category id")
	counterparty := fs.String("counterparty", "", "who owes or is owed (debts only)")
	fs.Parse(args)

	res, err := core.Kind(*kind).Resource()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	store := a.store(res, sess)
	created, err := store.Create(ctx, core.Draft{
		Kind:         core.Kind(*kind),
		Concept:      *concept,
		Amount:       *amount,
		Category:     core.Category{ID: *category},
		Counterparty: *counterparty,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s %q (%d) as %s\n", created.Kind, created.Concept, created.Amount, created.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	resource := fs.String("resource", string(core.Transactions), "transactions or debts")
	id := fs.String("id", "", "movement id")
	kind := fs.String("kind", "", "income, expenses, debt or loan")
	concept := fs.String("concept", "", "what the movement was for")
	amount := fs.String("amount", "", "amount in whole currency units")
	category := fs.String("category", core.NoCategory.ID, "category id")
	counterparty := fs.String("counterparty", "", "who owes or is owed (debts only)")
	fs.Parse(args)

	res := core.Resource(*resource)
	if !res.Valid() {
		return fmt.Errorf("edit: unknown resource %q", *resource)
	}
	if *id == "" {
		return fmt.Errorf("edit: -id is required")
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	store := a.store(res, sess)
	if err := fetchUntilFound(ctx, store, a.cfg.PageLimit, *id); err != nil {
		return err
	}

	updated, err := store.Update(ctx, *id, core.Draft{
		Kind:         core.Kind(*kind),
		Concept:      *concept,
		Amount:       *amount,
		Category:     core.Category{ID: *category},
		Counterparty: *counterparty,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s\n", updated.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	resource := fs.String("resource", string(core.Transactions), "transactions or debts")
	id := fs.String("id", "", "movement id")
	fs.Parse(args)

	res := core.Resource(*resource)
	if !res.Valid() {
		return fmt.Errorf("delete: unknown resource %q", *resource)
	}
	if *id == "" {
		return fmt.Errorf("delete: -id is required")
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	store := a.store(res, sess)
	if err := fetchUntilFound(ctx, store, a.cfg.PageLimit, *id); err != nil {
		return err
	}
	if err := store.Remove(ctx, *id); err != nil {
		return err
	}

	fmt.Printf("Deleted %s\n", *id)
	return nil
}

func (a *app) balance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	remote := fs.Bool("remote", false, "use the server-side aggregate endpoint instead of fetching the lists")
	fs.Parse(args)

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	if *remote {
		return a.remoteBalance(ctx, sess)
	}

	transactions := a.store(core.Transactions, sess)
	debts := a.store(core.Debts, sess)

	// Both collections load independently; fetch them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fetchAll(gctx, transactions, a.cfg.PageLimit) })
	g.Go(func() error { return fetchAll(gctx, debts, a.cfg.PageLimit) })
	if err := g.Wait(); err != nil {
		return err
	}

	income := transactions.SumKind(core.Income)
	expenses := transactions.SumKind(core.Expenses)
	loans := debts.SumKind(core.Loan)
	owed := debts.SumKind(core.Debt)

	fmt.Printf("Income:   %d\n", income)
	fmt.Printf("Expenses: %d\n", expenses)
	fmt.Printf("Balance:  %d\n", income-expenses)
	fmt.Printf("Loans:    %d\n", loans)
	fmt.Printf("Debts:    %d\n", owed)
	return nil
}

// remoteBalance asks the server for each kind's aggregate total. Totals are
// cached for repeated calls within one process run.
func (a *app) remoteBalance(ctx context.Context, sess session.Session) error {
	reader := movements.NewBalanceReader(a.client(sess), a.cfg.BalanceCacheSize, a.cfg.BalanceCacheTTL, a.logger)

	totals := make(map[core.Kind]int64)
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for _, kind := range []core.Kind{core.Income, core.Expenses, core.Debt, core.Loan} {
		kind := kind
		g.Go(func() error {
			total, err := reader.Total(gctx, kind, sess.UserID)
			if err != nil {
				return err
			}
			mu.Lock()
			totals[kind] = total
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Income:   %d\n", totals[core.Income])
	fmt.Printf("Expenses: %d\n", totals[core.Expenses])
	fmt.Printf("Balance:  %d\n", totals[core.Income]-totals[core.Expenses])
	fmt.Printf("Loans:    %d\n", totals[core.Loan])
	fmt.Printf("Debts:    %d\n", totals[core.Debt])
	return nil
}

func (a *app) statement(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("statement", flag.ExitOnError)
	resource := fs.String("resource", string(core.Transactions), "transactions or debts")
	fs.Parse(args)

	res := core.Resource(*resource)
	if !res.Valid() {
		return fmt.Errorf("statement: unknown resource %q", *resource)
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	store := a.store(res, sess)
	if err := fetchAll(ctx, store, a.cfg.PageLimit); err != nil {
		return err
	}

	list := store.Movements()
	st := report.Build(res, list)
	fmt.Printf("%s: %d movements, net %d\n", st.Resource, st.Count, st.Net)
	for _, kind := range res.Kinds() {
		fmt.Printf("\n%s: %d\n", kind, st.Totals[kind])
		for _, line := range report.Breakdown(list, kind) {
			name := line.Category.Name
			if name == "" {
				name = line.Category.ID
			}
			fmt.Printf("  %-20s %10d  %s%%\n", name, line.Total, line.Share.StringFixed(2))
		}
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	resource := fs.String("resource", string(core.Transactions), "transactions or debts")
	fs.Parse(args)

	res := core.Resource(*resource)
	if !res.Valid() {
		return fmt.Errorf("export: unknown resource %q", *resource)
	}

	sess, sessions, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	exporter, err := export.NewFromEnv(ctx, a.logger)
	if err != nil {
		return err
	}

	store := a.store(res, sess)
	if err := fetchAll(ctx, store, a.cfg.PageLimit); err != nil {
		return err
	}

	ref, err := exporter.Export(ctx, res, store.Movements())
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", ref)
	return nil
}

// fetchAll pages through the whole collection.
func fetchAll(ctx context.Context, store *movements.Store, limit int) error {
	for page := 1; !store.IsLastPage(); page++ {
		if err := store.FetchPage(ctx, page, limit); err != nil {
			return err
		}
	}
	return nil
}

// fetchUntilFound pages until the id shows up or the list is exhausted. The
// store requires the target of an update or delete to be loaded first.
func fetchUntilFound(ctx context.Context, store *movements.Store, limit int, id string) error {
	for page := 1; ; page++ {
		if err := store.FetchPage(ctx, page, limit); err != nil {
			return err
		}
		for _, m := range store.Movements() {
			if m.ID == id {
				return nil
			}
		}
		if store.IsLastPage() {
			return fmt.Errorf("movement %q: %w", id, core.ErrNotFound)
		}
	}
}

func buildFilter(date, start, end, granularity, category string) (core.FilterSpec, error) {
	filter := core.FilterSpec{Granularity: core.Granularity(granularity)}
	switch filter.Granularity {
	case core.Day, core.Month, core.Year:
	default:
		return core.FilterSpec{}, fmt.Errorf("unknown granularity %q", granularity)
	}

	parse := func(s string) (time.Time, error) {
		return time.Parse(time.DateOnly, s)
	}

	if date != "" && (start != "" || end != "") {
		return core.FilterSpec{}, fmt.Errorf("use either -date or -start/-end, not both")
	}
	switch {
	case start != "" || end != "":
		filter.SetMode(core.DateRange)
		if start != "" {
			t, err := parse(start)
			if err != nil {
				return core.FilterSpec{}, fmt.Errorf("parse -start: %w", err)
			}
			filter.RangeStart = t
		}
		if end != "" {
			t, err := parse(end)
			if err != nil {
				return core.FilterSpec{}, fmt.Errorf("parse -end: %w", err)
			}
			filter.RangeEnd = t
		}
	case date != "":
		filter.SetMode(core.SingleDate)
		t, err := parse(date)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("parse -date: %w", err)
		}
		filter.Date = t
	}
	if category != "" {
		filter.Category = core.Category{ID: category}
	}
	return filter, nil
}

func printMovement(resource core.Resource, m core.Movement) {
	date := ""
	if !m.CreatedAt.IsZero() {
		date = m.CreatedAt.Format(time.DateOnly)
	}
	category := ""
	if !m.Category.IsNone() {
		category = m.Category.Name
		if category == "" {
			category = m.Category.ID
		}
	}
	if resource == core.Debts {
		fmt.Printf("%-26s %-10s %-8s %-20s %-20s %10d  %s\n", m.ID, date, m.Kind, m.Concept, m.Counterparty, m.Amount, category)
		return
	}
	fmt.Printf("%-26s %-10s %-8s %-20s %10d  %s\n", m.ID, date, m.Kind, m.Concept, m.Amount, category)
}
