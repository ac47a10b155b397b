package main

import (
	"context"                       // Request cancellation
	"errors"                        // Error values
	"flag"                          // Subcommand flags
	"fmt"                           // Output
	"mobil_market/internal/client"  // REST client
	"mobil_market/internal/config"  // Custom package for configuration
	"mobil_market/internal/domain"  // Domain models
	"mobil_market/internal/session" // Persisted session
	"mobil_market/internal/views"   // Screen controllers
	"os"                            // Args and exit
	"os/signal"                     // Ctrl-C
	"strconv"                       // Argument parsing
	"strings"                       // Argument parsing
	"text/tabwriter"                // Table output
	"time"                          // Order timestamps

	"github.com/sirupsen/logrus" // Structured logging
)

const usage = `usage: storefront <command> [args]

  login <username> <password>
  register <username> <password>
  logout
  products [-search text] [-category name]
  favorite <productID>
  buy <productID>[:qty] ...
  orders
  admin-orders [-status STATUS|all] [-time hour|today|week|month|all]
  set-status <orderID> <STATUS>
`

// Main is a terminal front end for the storefront API
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	path := cfg.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			logrus.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(strings.TrimRight(cfg.BackendURL, "/") + "/api")
	sess := session.New(api, session.NewFileStore(path))
	app := views.NewApp(api, sess, views.ImageResolver{BackendURL: cfg.BackendURL, Native: true})
	if err := app.Start(ctx); err != nil {
		logrus.Fatal(err)
	}

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *views.App, cmd string, args []string) error {
	switch cmd {
	case "login", "register":
		if len(args) != 2 {
			return fmt.Errorf("%s needs <username> <password>", cmd)
		}
		app.Auth.SetMode(views.ModeLogin)
		if cmd == "register" {
			app.Auth.SetMode(views.ModeRegister)
		}
		app.Auth.Username, app.Auth.Password = args[0], args[1]
		if err := app.Auth.Submit(ctx); err != nil {
			return errors.New(app.Auth.Error)
		}
		u, _ := app.Session.User()
		fmt.Printf("logged in as %s (%s)\n", u.Username, u.Role)
		return nil
	case "logout":
		return app.Profile.Logout()
	case "products":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		search := fs.String("search", "", "name filter")
		category := fs.String("category", views.AllCategories, "category filter")
		if err := fs.Parse(args); err != nil {
			return err
		}
		app.Home.Search, app.Home.Category = *search, *category
		if err := app.Home.Refresh(ctx); err != nil {
			return err
		}
		printProducts(app)
		return nil
	}

	if app.ShowLogin() {
		return session.ErrNotLoggedIn
	}
	switch cmd {
	case "favorite":
		id, err := productID(args)
		if err != nil {
			return err
		}
		if err := app.Home.ToggleFavorite(ctx, id); err != nil {
			return err
		}
		fmt.Println("favorites:", app.Session.Favorites())
		return nil
	case "buy":
		return buy(ctx, app, args)
	case "orders":
		if err := app.Profile.Load(ctx); err != nil {
			return err
		}
		printOrders(app.Profile.Orders)
		return nil
	case "admin-orders":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		status := fs.String("status", views.StatusAll, "status filter")
		tf := fs.String("time", string(views.TimeAll), "time filter")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := app.Admin.Load(ctx); err != nil {
			return err
		}
		app.Admin.StatusFilter, app.Admin.TimeFilter = *status, views.TimeFilter(*tf)
		printOrders(app.Admin.Filtered(time.Now()))
		return nil
	case "set-status":
		if len(args) != 2 {
			return fmt.Errorf("set-status needs <orderID> <STATUS>")
		}
		st, err := domain.ParseOrderStatus(args[1])
		if err != nil {
			return err
		}
		return app.Admin.UpdateStatus(ctx, args[0], st)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func productID(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one product id")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	return uint(id), err
}

// buy fills the cart from "id[:qty]" arguments and checks out
func buy(ctx context.Context, app *views.App, args []string) error {
	if err := app.Home.Refresh(ctx); err != nil {
		return err
	}
	byID := map[uint]domain.Product{}
	for _, p := range app.Home.Products {
		byID[p.ID] = p
	}
	for _, arg := range args {
		idStr, qtyStr, _ := strings.Cut(arg, ":")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", idStr)
		}
		qty := 1
		if qtyStr != "" {
			if qty, err = strconv.Atoi(qtyStr); err != nil || qty < 1 {
				return fmt.Errorf("bad quantity %q", qtyStr)
			}
		}
		p, ok := byID[uint(id)]
		if !ok {
			return fmt.Errorf("product %d not found", id)
		}
		for range qty {
			app.Session.AddToCart(p)
		}
	}
	if err := app.Cart.Checkout(ctx); err != nil {
		if app.Cart.Alert != "" {
			return fmt.Errorf("%s: %w", app.Cart.Alert, err)
		}
		return err
	}
	o := app.Cart.LastOrder
	fmt.Printf("order %s placed, total %s, status %s\n", o.ID, o.TotalPrice.StringFixed(2), o.Status)
	return nil
}

func printProducts(app *views.App) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tFAV\tIMAGE")
	for _, p := range app.Home.Products {
		fav := ""
		if app.Session.IsFavorite(p.ID) {
			fav = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), fav, app.Home.Thumbnail(p))
	}
	w.Flush()
}

func printOrders(orders []domain.Order) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Username, o.Status, o.TotalPrice.StringFixed(2), o.CreatedAt.Local().Format(time.DateTime))
	}
	w.Flush()
}
