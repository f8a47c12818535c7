// Package listing defines the real-estate listing model shared by the API client,
// the overview controller and the UI.
package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Listing is a single property record returned by the listings API.
// Values are treated as immutable once decoded.
type Listing struct {
	ID          string  `json:"id" yaml:"id"`
	Price       float64 `json:"price" yaml:"price"`
	Type        string  `json:"type" yaml:"type"`
	ImgSrc      string  `json:"img_src" yaml:"img_src"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsRental reports whether the listing is offered for rent.
func (l Listing) IsRental() bool {
	return strings.EqualFold(l.Type, "rent")
}

// DisplayType returns a human label for the listing type.
func (l Listing) DisplayType() string {
	if l.IsRental() {
		return "For Rent"
	}
	return "For Sale"
}

// DisplayPrice formats the price rounded to whole units with thousands
// separators. Rentals get a /month suffix.
func (l Listing) DisplayPrice(currency string) string {
	s := currency + groupThousands(int64(math.Round(l.Price)))
	if l.IsRental() {
		s += "/month"
	}
	return s
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// LoadStatus is the outcome of the most recent fetch attempt.
type LoadStatus int

const (
	StatusLoading LoadStatus = iota
	StatusError
	StatusDone
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "LOADING"
	case StatusError:
		return "ERROR"
	case StatusDone:
		return "DONE"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Resolved reports whether the status is a fetch outcome rather than in-progress.
func (s LoadStatus) Resolved() bool {
	return s == StatusError || s == StatusDone
}

// Filter narrows which listings the API returns.
type Filter int

const (
	ShowAll Filter = iota
	ShowRent
	ShowBuy
)

// DefaultFilter is used for the initial fetch.
const DefaultFilter = ShowAll

var filterNames = map[Filter][2]string{
	ShowAll:  {"SHOW_ALL", "all"},
	ShowRent: {"SHOW_RENT", "rent"},
	ShowBuy:  {"SHOW_BUY", "buy"},
}

// Value is the query value sent to the API.
func (f Filter) Value() string {
	if n, ok := filterNames[f]; ok {
		return n[1]
	}
	return "all"
}

func (f Filter) String() string {
	if n, ok := filterNames[f]; ok {
		return n[0]
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter accepts either the enum name (SHOW_RENT) or the query value (rent).
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFilter, nil
	}
	for f, n := range filterNames {
		if strings.EqualFold(s, n[0]) || strings.EqualFold(s, n[1]) {
			return f, nil
		}
	}
	return DefaultFilter, fmt.Errorf("unknown filter %q", s)
}
