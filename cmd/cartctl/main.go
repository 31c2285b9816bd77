package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstate/internal/cart"
	"github.com/nikolayk812/cartstate/internal/catalog"
	"github.com/nikolayk812/cartstate/internal/config"
	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/nikolayk812/cartstate/internal/logger"
	"github.com/nikolayk812/cartstate/internal/notify"
	"github.com/nikolayk812/cartstate/internal/port"
	"github.com/nikolayk812/cartstate/internal/storage"
	"github.com/nikolayk812/cartstate/internal/tracing"
	"golang.org/x/text/currency"
)

const usage = `usage: cartctl [flags] <command>

commands:
  list                    print the cart
  add <product-id>        add one unit of a product
  remove <product-id>     drop a product from the cart
  update <product-id> <n> set the amount of a product

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("cartctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.CatalogURL, "catalog", cfg.CatalogURL, "catalog API base URL")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: memory|file|redis|postgres")
	fs.StringVar(&cfg.StorageFile, "file", cfg.StorageFile, "storage file for the file driver")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cmd, err := parseCommand(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	log := logger.New(logger.Options{Service: "cartctl", Level: cfg.LogLevel, Out: stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing.Init(ctx, "cartctl", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Error("failed to init tracing")
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("failed to shut down tracing")
		}
	}()

	st, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("failed to open storage")
		return 1
	}
	defer closeStorage()

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		log.WithError(err).Error("invalid currency")
		return 2
	}

	client := catalog.NewClient(cfg.CatalogURL,
		catalog.WithTimeout(cfg.CatalogTimeout),
		catalog.WithCurrency(unit),
		catalog.WithLogger(log),
	)

	recorder := notify.NewRecorder()
	store, err := cart.Open(ctx, client, st,
		cart.WithStorageKey(cfg.StorageKey),
		cart.WithNotifier(notify.Fanout{recorder, notify.NewLogger(log)}),
		cart.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Error("failed to open cart")
		return 1
	}

	// the outcome is reported through the notifier and the printed cart
	_ = cmd(ctx, store)

	for _, n := range recorder.Drain() {
		fmt.Fprintf(stderr, "%s: %s\n", n.Level, n.Message)
	}
	printCart(stdout, store.Cart())

	return 0
}

type command func(ctx context.Context, store port.CartStore) error

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("command is missing")
	}

	name, rest := args[0], args[1:]

	switch name {
	case "list":
		return func(context.Context, port.CartStore) error { return nil }, nil
	case "add", "remove":
		if len(rest) != 1 {
			return nil, fmt.Errorf("%s expects <product-id>", name)
		}
		id, err := parseID(rest[0])
		if err != nil {
			return nil, err
		}
		if name == "add" {
			return func(ctx context.Context, s port.CartStore) error { return s.AddProduct(ctx, id) }, nil
		}
		return func(ctx context.Context, s port.CartStore) error { return s.RemoveProduct(ctx, id) }, nil
	case "update":
		if len(rest) != 2 {
			return nil, fmt.Errorf("update expects <product-id> <amount>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return nil, err
		}
		amount, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, fmt.Errorf("amount[%s] is not a number", rest[1])
		}
		req := port.UpdateProductAmount{ProductID: id, Amount: amount}
		return func(ctx context.Context, s port.CartStore) error { return s.UpdateProductAmount(ctx, req) }, nil
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("product id[%s] must be a positive integer", s)
	}
	return id, nil
}

func openStorage(ctx context.Context, cfg config.Config) (port.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemory(), func() {}, nil
	case config.DriverFile:
		return storage.NewFile(cfg.StorageFile), func() {}, nil
	case config.DriverRedis:
		client := storage.NewRedisClient(cfg.RedisAddr)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return storage.NewRedis(client), func() { _ = client.Close() }, nil
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		return storage.NewPostgres(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("storage driver[%s] is not supported", cfg.StorageDriver)
	}
}

func printCart(w io.Writer, c domain.Cart) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tAMOUNT")
	for _, p := range c.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Title, p.Price, p.Amount)
	}
	_ = tw.Flush()
}
