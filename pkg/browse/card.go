package browse

import (
	"strings"

	"github.com/ecobasket/ecobasket/pkg/off"
)

// PlaceholderImage is shown when a product record carries no image URL.
const PlaceholderImage = "/public/images/logo.png"

// Eco indicator colors. A fixed lookup keyed by grade, not computed.
const (
	ecoGreen   = "#27C427"
	ecoAmber   = "#FFC300"
	ecoRed     = "#FF6B6B"
	ecoNeutral = "#d9d9d9"
)

// Card describes one product card: everything a surface needs to draw
// it and wire its view/add actions.
type Card struct {
	Code     string
	Title    string
	Image    string
	EcoGrade string
	EcoColor string
	ViewURL  string
}

func newCard(p off.Product) Card {
	title := p.DisplayName()
	if title == "" {
		title = "No name"
	}
	image := p.Image()
	if image == "" {
		image = PlaceholderImage
	}
	grade := strings.ToUpper(p.EcoscoreGrade)
	return Card{
		Code:     p.Code,
		Title:    title,
		Image:    image,
		EcoGrade: grade,
		EcoColor: ecoColor(grade),
		ViewURL:  off.ProductURL(p.Code),
	}
}

func ecoColor(grade string) string {
	switch grade {
	case "A", "B":
		return ecoGreen
	case "C":
		return ecoAmber
	case "D", "E":
		return ecoRed
	}
	return ecoNeutral
}
