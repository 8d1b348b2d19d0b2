package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/QKart/internal/db"
	"github.com/atinyakov/QKart/internal/service"
)

const shellHelp = `Available commands:
  products                list the catalog
  search <text>           search as you type (debounced)
  find <text>             search now
  cart                    show the cart
  add <id>                add a product to the cart
  qty <id> <n>            change a quantity; 0 removes
  checkout                show the order summary
  login <user> <pass>     log in
  register <user> <pass>  create an account
  logout                  log out
  whoami                  show the logged in user
  exit                    leave the shell`

// syncWriter serializes writes from the prompt loop and from debounced
// search results.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// repl runs the interactive shell loop until exit or end of input.
func (c *cli) repl(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.out = &syncWriter{w: c.out}
	db.StartExpiredKeyCleaner(ctx, c.app.db, time.Minute, c.app.log)

	store := c.app.store
	store.OnSearch(func(res service.SearchResult) {
		switch res.Outcome {
		case service.SearchReplaced:
			printProducts(c.out, res.Products, store.InCart)
		case service.SearchNotFound:
			printProducts(c.out, nil, nil)
		case service.SearchFailed:
			printNotifications(c.out, store.TakeNotifications())
		}
	})
	defer store.OnSearch(nil)

	if err := c.load(ctx); err != nil {
		fmt.Fprintln(c.out, "Catalog unavailable; search and cart commands may still work.")
	}

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "qkart> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		var err error
		switch args[0] {
		case "help":
			fmt.Fprintln(c.out, shellHelp)
		case "products":
			err = c.products(ctx)
		case "search":
			store.Search(strings.TrimSpace(strings.TrimPrefix(line, "search")))
		case "find":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: find <text>")
				continue
			}
			err = c.search(ctx, strings.Join(args[1:], " "))
		case "cart":
			err = c.cart(ctx)
		case "add":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: add <id>")
				continue
			}
			err = c.add(ctx, args[1])
		case "qty":
			if len(args) < 3 {
				fmt.Fprintln(c.out, "Usage: qty <id> <n>")
				continue
			}
			err = c.qty(ctx, args[1], args[2])
		case "checkout":
			err = c.checkout(ctx)
		case "login":
			if len(args) < 3 {
				fmt.Fprintln(c.out, "Usage: login <user> <pass>")
				continue
			}
			err = c.login(ctx, args[1], args[2])
		case "register":
			if len(args) < 3 {
				fmt.Fprintln(c.out, "Usage: register <user> <pass>")
				continue
			}
			err = c.register(ctx, args[1], args[2])
		case "logout":
			err = c.logout(ctx)
		case "whoami":
			c.whoami()
		case "exit":
			fmt.Fprintln(c.out, "Bye")
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown command. Type 'help' for a list of commands.")
		}
		if err != nil && !isReported(err) {
			printError(c.out, err)
		}
	}
}
