package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether a flag is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIMarket is a market as returned by the Gamma API. Outcomes and
// OutcomePrices arrive as JSON arrays encoded inside JSON strings, e.g.
// `"[\"Yes\", \"No\"]"`, so they stay raw here and are decoded on demand.
type APIMarket struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Slug          string   `json:"slug"`
	ConditionID   string   `json:"conditionId"`
	Active        flexBool `json:"active"`
	Closed        flexBool `json:"closed"`
	Resolved      flexBool `json:"resolved"`
	Outcomes      string   `json:"outcomes"`
	OutcomePrices string   `json:"outcomePrices"`
}

// OutcomeNames decodes the doubly encoded outcomes array.
func (m *APIMarket) OutcomeNames() ([]string, error) {
	if m.Outcomes == "" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(m.Outcomes), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// OutcomePriceValues decodes the doubly encoded prices array. Prices come
// back as decimal strings inside the inner array.
func (m *APIMarket) OutcomePriceValues() ([]float64, error) {
	if m.OutcomePrices == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &raw); err != nil {
		return nil, err
	}
	prices := make([]float64, 0, len(raw))
	for _, s := range raw {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, nil
}
