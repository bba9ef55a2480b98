package report

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fuelwatch/gaspricebot/internal/prices"
)

var testTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestRenderSortsAscending(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		quote map[prices.FuelType]float64
		order []prices.FuelType
	}{
		{
			name: "base prices",
			quote: map[prices.FuelType]float64{
				prices.FuelRegular:  3.45,
				prices.FuelMidGrade: 3.75,
				prices.FuelPremium:  4.05,
				prices.FuelDiesel:   3.85,
			},
			order: []prices.FuelType{prices.FuelRegular, prices.FuelMidGrade, prices.FuelDiesel, prices.FuelPremium},
		},
		{
			name: "reversed input",
			quote: map[prices.FuelType]float64{
				prices.FuelRegular: 5.00,
				prices.FuelDiesel:  1.00,
			},
			order: []prices.FuelType{prices.FuelDiesel, prices.FuelRegular},
		},
		{
			name: "station names",
			quote: map[prices.FuelType]float64{
				"Shell Downtown": 3.99,
				"Costco":         3.39,
			},
			order: []prices.FuelType{"Costco", "Shell Downtown"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			q := prices.Quote{Area: "10001", Prices: tt.quote, FetchedAt: testTime}
			msg := Render(q, "10001", testTime, 6*time.Hour)

			positions := make([]int, 0, len(tt.order))
			for _, fuel := range tt.order {
				idx := strings.Index(msg, string(fuel)+":")
				if idx < 0 {
					t.Fatalf("fuel %q missing from message:\n%s", fuel, msg)
				}
				positions = append(positions, idx)
			}
			if !sort.IntsAreSorted(positions) {
				t.Fatalf("fuels not listed cheapest first, positions %v in:\n%s", positions, msg)
			}
		})
	}
}

func TestRenderEmptyQuote(t *testing.T) {
	t.Parallel()
	q := prices.Quote{Area: "10001"}
	if got := Render(q, "10001", testTime, 6*time.Hour); got != UnavailableText {
		t.Fatalf("Render(empty) = %q, want fixed unavailable text", got)
	}
	if got := RenderRich(q, "10001", testTime, 6*time.Hour); got != UnavailableText {
		t.Fatalf("RenderRich(empty) = %q, want fixed unavailable text", got)
	}
}

func TestRenderContents(t *testing.T) {
	t.Parallel()
	q := prices.Quote{
		Area:      "10001",
		Prices:    map[prices.FuelType]float64{prices.FuelRegular: 3.456},
		FetchedAt: testTime,
	}
	msg := Render(q, "10001", testTime, 6*time.Hour)

	for _, want := range []string{
		"Current Gas Prices",
		"Location: 10001",
		"2026-08-31 12:00:00",
		"$3.46", // two decimal display precision
		"approximately 6 hours",
		"/now",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestRenderRichStructureMatchesPlain(t *testing.T) {
	t.Parallel()
	q := prices.Quote{
		Area: "10001",
		Prices: map[prices.FuelType]float64{
			prices.FuelRegular: 3.45,
			prices.FuelDiesel:  3.85,
		},
		FetchedAt: testTime,
	}

	plain := Render(q, "10001", testTime, 2*time.Hour)
	rich := RenderRich(q, "10001", testTime, 2*time.Hour)

	if got, want := strings.Count(rich, "\n"), strings.Count(plain, "\n"); got != want {
		t.Fatalf("rich has %d lines, plain has %d", got, want)
	}
	for _, want := range []string{"<b>Current Gas Prices</b>", "$3.45", "$3.85", "approximately 2 hours"} {
		if !strings.Contains(rich, want) {
			t.Errorf("rich message missing %q:\n%s", want, rich)
		}
	}
}

func TestRenderRichEscapesArea(t *testing.T) {
	t.Parallel()
	q := prices.Quote{
		Area:      "<area>",
		Prices:    map[prices.FuelType]float64{prices.FuelRegular: 3.45},
		FetchedAt: testTime,
	}
	rich := RenderRich(q, "<area>", testTime, time.Hour)
	if strings.Contains(rich, "<area>") {
		t.Fatalf("area not escaped:\n%s", rich)
	}
	if !strings.Contains(rich, "&lt;area&gt;") {
		t.Fatalf("escaped area missing:\n%s", rich)
	}
}

func TestCadence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		period time.Duration
		want   string
	}{
		{6 * time.Hour, "6 hours"},
		{time.Hour, "1 hour"},
		{90 * time.Minute, "1h30m0s"},
		{0, "a while"},
	}
	for _, tt := range tests {
		if got := Cadence(tt.period); got != tt.want {
			t.Errorf("Cadence(%v) = %q, want %q", tt.period, got, tt.want)
		}
	}
}

func TestHelpText(t *testing.T) {
	t.Parallel()
	msg := HelpText("10001", 6*time.Hour)
	for _, want := range []string{"/now", "/help", "6 hours", "10001"} {
		if !strings.Contains(msg, want) {
			t.Errorf("help text missing %q:\n%s", want, msg)
		}
	}
}

func TestEmoji(t *testing.T) {
	t.Parallel()
	if got := Emoji(prices.FuelRegular); got != "🟢" {
		t.Errorf("Emoji(Regular) = %q", got)
	}
	if got := Emoji("Some Station"); got != "⛽" {
		t.Errorf("Emoji(unknown) = %q, want generic pump", got)
	}
}
