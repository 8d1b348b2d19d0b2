package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/client/storefront"
	"github.com/atinyakov/QKart/internal/config"
	"github.com/atinyakov/QKart/internal/logger"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/service"
)

// errReported means the failure was already shown to the user.
var errReported = errors.New("reported")

// cli carries the state shared by all commands of one invocation.
type cli struct {
	in   *bufio.Reader
	out  io.Writer
	opts *config.Options
	app  *app
}

// execute runs one invocation of the client with args.
func execute(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	root, c := newRootCmd(in, out)
	defer c.close()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd(in io.Reader, out io.Writer) (*cobra.Command, *cli) {
	c := &cli{
		in:   bufio.NewReader(in),
		out:  out,
		opts: config.Default(),
	}

	root := &cobra.Command{
		Use:           "qkart",
		Short:         "QKart storefront client",
		Long:          "Browse the QKart catalog, search it and manage your cart from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if err := c.opts.Resolve(); err != nil {
				return err
			}

			log := logger.New()
			if err := log.Init(cmp.Or(c.opts.LogLevel, "warn")); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), c.opts, log.Log)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	fs := flag.NewFlagSet("qkart", flag.ContinueOnError)
	c.opts.BindFlags(fs)
	c.opts.BindClientFlags(fs)
	root.PersistentFlags().AddGoFlagSet(fs)

	root.AddCommand(
		c.simpleCmd("products", "List the catalog", cobra.NoArgs, func(ctx context.Context, _ []string) error {
			return c.products(ctx)
		}),
		c.simpleCmd("search <text>", "Search products by name or category", cobra.MinimumNArgs(1), func(ctx context.Context, args []string) error {
			return c.search(ctx, strings.Join(args, " "))
		}),
		c.simpleCmd("cart", "Show the cart", cobra.NoArgs, func(ctx context.Context, _ []string) error {
			return c.cart(ctx)
		}),
		c.simpleCmd("add <product-id>", "Add a product to the cart", cobra.ExactArgs(1), func(ctx context.Context, args []string) error {
			return c.add(ctx, args[0])
		}),
		c.simpleCmd("qty <product-id> <quantity>", "Change the quantity of a cart product; 0 removes it", cobra.ExactArgs(2), func(ctx context.Context, args []string) error {
			return c.qty(ctx, args[0], args[1])
		}),
		c.simpleCmd("checkout", "Show the order summary", cobra.NoArgs, func(ctx context.Context, _ []string) error {
			return c.checkout(ctx)
		}),
		c.loginCmd(),
		c.registerCmd(),
		c.simpleCmd("logout", "Forget the session", cobra.NoArgs, func(ctx context.Context, _ []string) error {
			return c.logout(ctx)
		}),
		c.simpleCmd("whoami", "Show the logged in user", cobra.NoArgs, func(context.Context, []string) error {
			c.whoami()
			return nil
		}),
		c.simpleCmd("shell", "Start an interactive session", cobra.NoArgs, func(ctx context.Context, _ []string) error {
			return c.repl(ctx)
		}),
		versionCmd(out),
	)
	return root, c
}

func (c *cli) close() {
	if c.app != nil {
		_ = c.app.log.Sync()
		c.app.Close()
	}
}

func (c *cli) simpleCmd(use, short string, args cobra.PositionalArgs, run func(context.Context, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}
}

// fail prints the pending notifications and marks err as reported.
func (c *cli) fail(err error) error {
	notes := c.app.store.TakeNotifications()
	if len(notes) == 0 {
		return err
	}
	printNotifications(c.out, notes)
	return fmt.Errorf("%w: %w", errReported, err)
}

func (c *cli) load(ctx context.Context) error {
	if err := c.app.store.Load(ctx); err != nil {
		return c.fail(err)
	}
	// A failed cart fetch does not stop browsing.
	printNotifications(c.out, c.app.store.TakeNotifications())
	return nil
}

func (c *cli) requireLogin(msg string) error {
	if c.app.store.Session().Authenticated() {
		return nil
	}
	printNotification(c.out, storefront.LevelWarning, msg)
	return fmt.Errorf("%w: %w", errReported, api.ErrAuthRequired)
}

func (c *cli) products(ctx context.Context) error {
	if err := c.load(ctx); err != nil {
		return err
	}
	printProducts(c.out, c.app.store.Listing(), c.app.store.InCart)
	return nil
}

func (c *cli) search(ctx context.Context, query string) error {
	res := c.app.store.SearchNow(ctx, query)
	switch res.Outcome {
	case service.SearchReplaced:
		printProducts(c.out, res.Products, nil)
	case service.SearchNotFound:
		printProducts(c.out, nil, nil)
	case service.SearchFailed:
		return c.fail(res.Err)
	}
	return nil
}

func (c *cli) cart(ctx context.Context) error {
	if err := c.requireLogin(api.MsgLoginRequired); err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return err
	}
	printCart(c.out, c.app.store.Items(), c.app.store.Summary())
	return nil
}

func (c *cli) add(ctx context.Context, productID string) error {
	if err := c.load(ctx); err != nil {
		return err
	}
	if err := c.app.store.AddToCart(ctx, productID); err != nil {
		return c.fail(err)
	}
	printCart(c.out, c.app.store.Items(), c.app.store.Summary())
	return nil
}

func (c *cli) qty(ctx context.Context, productID, raw string) error {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("quantity must be a number: %w", err)
	}
	if err := c.load(ctx); err != nil {
		return err
	}
	if err := c.app.store.SetQuantity(ctx, productID, qty); err != nil {
		return c.fail(err)
	}
	printCart(c.out, c.app.store.Items(), c.app.store.Summary())
	return nil
}

func (c *cli) checkout(ctx context.Context) error {
	if err := c.requireLogin("You must be logged in to access checkout page"); err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return err
	}
	items := c.app.store.Items()
	printCart(c.out, items, c.app.store.Summary())
	if len(items) > 0 {
		printSummary(c.out, c.app.store.Summary())
	}
	return nil
}

func (c *cli) login(ctx context.Context, username, password string) error {
	sess, err := c.app.sessions.Login(ctx, username, password)
	if err != nil {
		printNotification(c.out, storefront.LevelError, api.UserMessage(err, api.MsgBackendDown))
		return fmt.Errorf("%w: %w", errReported, err)
	}
	c.app.store.SetSession(sess)
	printNotification(c.out, storefront.LevelSuccess, "Logged in successfully")
	return nil
}

func (c *cli) register(ctx context.Context, username, password string) error {
	if err := c.app.sessions.Register(ctx, username, password); err != nil {
		printNotification(c.out, storefront.LevelError, api.UserMessage(err, api.MsgBackendDown))
		return fmt.Errorf("%w: %w", errReported, err)
	}
	printNotification(c.out, storefront.LevelSuccess, "Registered successfully")
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.app.sessions.Logout(ctx); err != nil {
		return err
	}
	c.app.store.SetSession(models.Session{})
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func (c *cli) whoami() {
	sess := c.app.store.Session()
	if !sess.Authenticated() {
		fmt.Fprintln(c.out, "Not logged in")
		return
	}
	fmt.Fprintln(c.out, sess.Username)
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
			}
			return c.login(cmd.Context(), args[0], password)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
				confirm, err := c.prompt("Confirm password: ")
				if err != nil {
					return err
				}
				if confirm != password {
					printNotification(c.out, storefront.LevelWarning, "Passwords do not match")
					return fmt.Errorf("%w: passwords do not match", errReported)
				}
			}
			return c.register(cmd.Context(), args[0], password)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version and date",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "QKart Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		},
	}
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
