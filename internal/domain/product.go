package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	DefaultCoverTitle = "精选单品"
	DefaultSubtitle   = "必入好物"
	// AbsentSubtitle is used when a stored record has no features key at all.
	AbsentSubtitle    = "品质生活"
	DefaultPrice      = "299"
)

// Price keeps the literal price text; inputs carry it either as a JSON number
// or as a string.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = Price(n.String())
	return nil
}

func (p Price) String() string {
	return string(p)
}

// Product is one record of the input catalog.
type Product struct {
	ProductID      string   `json:"product_id" validate:"required,product_id"`
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category"`
	Price          Price    `json:"price"`
	TargetAudience string   `json:"target_audience"`
	Features       []string `json:"features"`
	SellingPoint   string   `json:"selling_point"`
	Tone           string   `json:"tone"`
}

// Copy is the marketing text generated for one product.
type Copy struct {
	CoverTitle string   `json:"cover_title"`
	UIFeatures []string `json:"ui_features"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Provider   string   `json:"-"`
}

// ResultRecord is one entry of results.json. The first five fields are the
// published note; the rest feed the cover renderer.
type ResultRecord struct {
	ProductID   string   `json:"product_id"`
	Cover       string   `json:"cover"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	ProductName string   `json:"product_name,omitempty"`
	ImageURL    string   `json:"image_url"`
	Tone        string   `json:"tone"`
	CoverTitle  string   `json:"cover_title"`
	Features    []string `json:"features"`
	Price       string   `json:"price"`

	featuresAbsent bool
}

// UnmarshalJSON notes whether the features key was present at all.
func (r *ResultRecord) UnmarshalJSON(data []byte) error {
	type plain ResultRecord
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = ResultRecord(decoded)
	r.featuresAbsent = !gjson.GetBytes(data, "features").Exists()
	return nil
}

// CoverItem is the immutable input of the cover compositor.
type CoverItem struct {
	ProductID  string
	CoverTitle string
	Subtitle   string
	Price      string
	Tone       string
	ImageURL   string
}

// ValidProductID reports whether id can name a file directly inside the
// covers directory.
func ValidProductID(id string) bool {
	if id == "" || id == "." {
		return false
	}
	return !strings.ContainsAny(id, "/\\") && !strings.Contains(id, "..")
}

// CoverFilename returns the deterministic output name for a product cover.
func CoverFilename(productID string) string {
	return productID + "_cover.png"
}

// CoverItem derives the renderer input, applying the layout defaults.
func (r ResultRecord) CoverItem() CoverItem {
	id := strings.TrimSpace(r.ProductID)
	if id == "" {
		id = "unknown"
	}
	title := strings.TrimSpace(r.CoverTitle)
	if title == "" {
		title = DefaultCoverTitle
	}
	subtitle := DefaultSubtitle
	switch {
	case r.featuresAbsent:
		subtitle = AbsentSubtitle
	case len(r.Features) > 0:
		subtitle = r.Features[0]
	}
	price := strings.TrimSpace(r.Price)
	if price == "" {
		price = DefaultPrice
	}
	return CoverItem{
		ProductID:  id,
		CoverTitle: title,
		Subtitle:   subtitle,
		Price:      price,
		Tone:       r.Tone,
		ImageURL:   strings.TrimSpace(r.ImageURL),
	}
}
