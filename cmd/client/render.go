package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/atinyakov/QKart/internal/client/storefront"
	"github.com/atinyakov/QKart/internal/models"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func printNotifications(w io.Writer, notes []storefront.Notification) {
	for _, n := range notes {
		printNotification(w, n.Level, n.Message)
	}
}

func printNotification(w io.Writer, level storefront.Level, msg string) {
	style := successStyle
	switch level {
	case storefront.LevelError:
		style = errorStyle
	case storefront.LevelWarning:
		style = warningStyle
	}
	fmt.Fprintln(w, style.Render(msg))
}

func printProducts(w io.Writer, products []models.Product, inCart func(string) bool) {
	if len(products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No products found"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("ID")+"\tNAME\tCATEGORY\tCOST\tRATING\t")
	for _, p := range products {
		mark := ""
		if inCart != nil && inCart(p.ID) {
			mark = "in cart"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%s\t%s\t%s\n", p.ID, p.Name, p.Category, money(p.Cost), stars(p.Rating), mark)
	}
	tw.Flush()
}

func printCart(w io.Writer, items []models.CartLineItem, summary models.OrderSummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Cart is empty. Add more items to the cart to checkout."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("ID")+"\tNAME\tQTY\tCOST\t")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t$%s\t\n", it.ProductID, it.Name, it.Qty, money(it.Cost))
	}
	tw.Flush()
	fmt.Fprintf(w, "%s $%s\n", headerStyle.Render("Order total"), money(summary.Subtotal))
}

func printSummary(w io.Writer, summary models.OrderSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("Order Details"))
	fmt.Fprintf(tw, "Products\t%d\n", summary.Products)
	fmt.Fprintf(tw, "Subtotal\t$%s\n", money(summary.Subtotal))
	fmt.Fprintf(tw, "Shipping Charges\t$%s\n", money(summary.Shipping))
	fmt.Fprintf(tw, "Total\t$%s\n", money(summary.Total))
	tw.Flush()
}

// money prints the shortest exact form, so whole prices carry no decimals.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}
