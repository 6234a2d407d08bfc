package fulfillment

import "encoding/json"

// IDString is an identifier the platform may deliver as either a JSON string
// or a JSON number. Numeric ids keep their decimal form.
type IDString string

func (s *IDString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = IDString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = IDString(n.String())
	return nil
}

// OrderEvent is an inbound order-creation event as delivered by the
// commerce platform's webhook.
type OrderEvent struct {
	ID        IDString        `json:"id"`
	Name      string          `json:"name"`
	LineItems []EventLineItem `json:"line_items"`
}

// EventLineItem is one line of an inbound order event.
type EventLineItem struct {
	ID        IDString `json:"id"`
	ProductID IDString `json:"product_id"`
	VariantID IDString `json:"variant_id"`
	SKU       string   `json:"sku"`
	Quantity  int      `json:"quantity"`
}

// IngestResult reports what the ingestion pipeline did with an event.
type IngestResult struct {
	// Processed is false when the event was skipped: merchant not set up or
	// no line items matched the registered catalog.
	Processed bool
	// SkipReason explains a skip.
	SkipReason string
	// OwnedCount is the number of line items matched to registrations.
	OwnedCount int
	// Accepted reports the decision service's verdict. Only meaningful when
	// Forwarded is true.
	Accepted bool
	// Forwarded is false when the decision service could not be reached.
	// The order stays persisted in CREATED regardless.
	Forwarded bool
}
