// Package report formats gas price quotes into chat messages.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/fuelwatch/gaspricebot/internal/prices"
)

// UnavailableText is posted whenever a usable quote could not be fetched.
const UnavailableText = "❌ Unable to fetch gas prices at this time. Please try again later."

// ApologyText is the reply for a failed on-demand request.
const ApologyText = "❌ Sorry, I couldn't fetch gas prices right now. Please try again later."

var fuelEmoji = map[prices.FuelType]string{
	prices.FuelRegular:  "🟢",
	prices.FuelMidGrade: "🟡",
	prices.FuelPremium:  "🔴",
	prices.FuelDiesel:   "🔵",
}

// Emoji returns the display emoji for a fuel type.
func Emoji(fuel prices.FuelType) string {
	if e, ok := fuelEmoji[fuel]; ok {
		return e
	}
	return "⛽"
}

// Line is one rendered price entry.
type Line struct {
	Fuel  prices.FuelType
	Price float64
}

// SortedLines returns the quote entries cheapest first. Ties keep a stable
// order by fuel name so repeated renders of the same quote are identical.
func SortedLines(q prices.Quote) []Line {
	lines := make([]Line, 0, len(q.Prices))
	for fuel, price := range q.Prices {
		lines = append(lines, Line{Fuel: fuel, Price: price})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Price != lines[j].Price {
			return lines[i].Price < lines[j].Price
		}
		return lines[i].Fuel < lines[j].Fuel
	})
	return lines
}

// Render produces the plain-text price report: header with area and
// timestamp, one line per fuel type sorted cheapest first, and a footer
// noting the update cadence. An empty quote renders the fixed unavailable
// message, never an empty list.
func Render(q prices.Quote, area string, now time.Time, period time.Duration) string {
	if q.IsEmpty() {
		return UnavailableText
	}

	var b strings.Builder
	b.WriteString("⛽ Current Gas Prices ⛽\n")
	fmt.Fprintf(&b, "📍 Location: %s\n", area)
	fmt.Fprintf(&b, "🕒 Updated: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("\n💰 Prices per gallon:\n")

	for _, ln := range SortedLines(q) {
		fmt.Fprintf(&b, "%s %s: $%.2f\n", Emoji(ln.Fuel), ln.Fuel, ln.Price)
	}

	fmt.Fprintf(&b, "\n🔄 Next update in approximately %s\n", Cadence(period))
	b.WriteString("💡 Use /now for an instant price check")

	return b.String()
}

// RenderRich produces the HTML-styled variant of the same report. Structure
// matches Render line for line; only the styling differs.
func RenderRich(q prices.Quote, area string, now time.Time, period time.Duration) string {
	if q.IsEmpty() {
		return UnavailableText
	}

	var b strings.Builder
	b.WriteString("⛽ <b>Current Gas Prices</b> ⛽\n")
	fmt.Fprintf(&b, "📍 Location: %s\n", html.EscapeString(area))
	fmt.Fprintf(&b, "🕒 Updated: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("\n💰 <b>Prices per gallon:</b>\n")

	for _, ln := range SortedLines(q) {
		fmt.Fprintf(&b, "%s %s: <b>$%.2f</b>\n", Emoji(ln.Fuel), html.EscapeString(string(ln.Fuel)), ln.Price)
	}

	fmt.Fprintf(&b, "\n🔄 Next update in approximately %s\n", Cadence(period))
	b.WriteString("💡 Use /now for an instant price check")

	return b.String()
}

// HelpText returns the /help reply for the configured area and cadence.
func HelpText(area string, period time.Duration) string {
	var b strings.Builder
	b.WriteString("🤖 Gas Price Bot\n\n")
	b.WriteString("Commands:\n")
	b.WriteString("/now - Get current gas prices immediately\n")
	b.WriteString("/help - Show this help message\n\n")
	fmt.Fprintf(&b, "Automatic price updates every %s\n", Cadence(period))
	b.WriteString("Covers Regular, Mid-Grade, Premium and Diesel\n")
	fmt.Fprintf(&b, "Currently tracking prices for %s", area)
	return b.String()
}

// Cadence formats the update period for display.
func Cadence(period time.Duration) string {
	if period <= 0 {
		return "a while"
	}
	if period%time.Hour == 0 {
		h := int(period / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return period.String()
}
