package market

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"conexa/app/models"

	"github.com/dustin/go-humanize"
)

const (
	// CargoFallback labels listings without a cargo type.
	CargoFallback = "Carga General"
	// DateFallback is shown for listings without a date.
	DateFallback = "A CONFIRMAR"
)

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// Card is a listing as the dashboard renders it.
type Card struct {
	ID         string
	Offer      bool
	TypeLabel  string
	Origin     string
	Dest       string
	Cargo      string
	Weight     string
	Date       string
	MapURL     string
	BadgeLabel string
	BadgeSub   string
}

// Route returns "origin ➝ destination".
func (c Card) Route() string {
	return c.Origin + " ➝ " + c.Dest
}

// NewCard shapes item for display.
func NewCard(item models.MarketItem) Card {
	c := Card{
		ID:     item.ID,
		Offer:  item.IsOffer(),
		Origin: item.Origin,
		Dest:   item.Destination,
		Cargo:  CargoLabel(item.CargoType),
		Weight: WeightLabel(item.WeightKg),
		Date:   DateLabel(item.Date()),
		MapURL: item.MapURL,
	}
	if c.Offer {
		c.TypeLabel, c.BadgeLabel, c.BadgeSub = "OFERTA DE TRANSPORTE", "OFERTA", "Transporte"
	} else {
		c.TypeLabel, c.BadgeLabel, c.BadgeSub = "SOLICITUD DE CARGA", "PEDIDO", "Carga"
	}
	return c
}

// Cards shapes every item.
func Cards(items []models.MarketItem) []Card {
	out := make([]Card, len(items))
	for i, item := range items {
		out[i] = NewCard(item)
	}
	return out
}

// CargoLabel capitalizes cargo, or returns CargoFallback.
func CargoLabel(cargo string) string {
	cargo = strings.TrimSpace(cargo)
	if cargo == "" {
		return CargoFallback
	}
	r, size := utf8.DecodeRuneInString(cargo)
	return string(unicode.ToUpper(r)) + cargo[size:]
}

// WeightLabel renders kg as "• 12,500 kg", or "" when unknown.
func WeightLabel(kg int64) string {
	if kg <= 0 {
		return ""
	}
	return fmt.Sprintf("• %s kg", humanize.Comma(kg))
}

// DateLabel renders t as "05 mar 2024", or DateFallback.
func DateLabel(t *time.Time) string {
	if t == nil || t.IsZero() {
		return DateFallback
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), shortMonths[t.Month()-1], t.Year())
}
