package model

import (
	"fmt"
	"strings"
)

// Category is the risk bucket a tracked domain belongs to.
type Category string

const (
	Critical Category = "critical"
	High     Category = "high"
	Medium   Category = "medium"
	Low      Category = "low"
)

// Categories lists every category in display order.
var Categories = []Category{Critical, High, Medium, Low}

func (c Category) Valid() bool {
	switch c {
	case Critical, High, Medium, Low:
		return true
	}
	return false
}

// Rank is the category's position in display order, or len(Categories) when unknown.
func (c Category) Rank() int {
	for i, x := range Categories {
		if x == c {
			return i
		}
	}
	return len(Categories)
}

func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Item is one tracked domain. Items never change after the catalog is built.
type Item struct {
	ID       string   `json:"id" yaml:"id"`
	Category Category `json:"category" yaml:"category"`
}
