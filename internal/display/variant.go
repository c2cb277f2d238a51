package display

import (
	"fmt"
	"strings"
)

// Variant names.
const (
	VariantCIPipeline       = "ci-pipeline"
	VariantComposeFullstack = "compose-fullstack"
)

// Badge is one entry of the static stack row.
type Badge struct {
	Label string
	// Color is the CSS background colour, as a hex string.
	Color string
}

// Variant bundles the fixed presentation and endpoint of one demo project.
type Variant struct {
	Name     string
	Title    string
	Endpoint string
	Badges   []Badge
}

var variants = []Variant{
	{
		Name:     VariantCIPipeline,
		Title:    "Project 2: CI Pipeline Demo",
		Endpoint: "http://localhost:8000",
		Badges: []Badge{
			{Label: "React", Color: "#282c34"},
			{Label: "Django", Color: "#092e20"},
			{Label: "GitHub Actions", Color: "#2088ff"},
			{Label: "Docker", Color: "#2496ed"},
		},
	},
	{
		Name:     VariantComposeFullstack,
		Title:    "Project 3: Docker Compose Fullstack",
		Endpoint: "/api/",
		Badges: []Badge{
			{Label: "React", Color: "#282c34"},
			{Label: "Django", Color: "#092e20"},
			{Label: "PostgreSQL", Color: "#336791"},
			{Label: "Redis", Color: "#dc382d"},
			{Label: "Nginx", Color: "#009639"},
		},
	},
}

// Variants returns the known demo variants in a stable order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	for i, v := range variants {
		v.Badges = append([]Badge(nil), v.Badges...)
		out[i] = v
	}
	return out
}

// LookupVariant returns the variant registered under name.
func LookupVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range Variants() {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}
