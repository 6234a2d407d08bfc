package fulfillment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The platform serializes ids as JSON numbers in webhook payloads, while
// admin API objects carry them as strings. Both forms must decode.
func TestOrderEventUnmarshalNumericIDs(t *testing.T) {
	payload := []byte(`{
		"id": 5678901234,
		"name": "#1001",
		"line_items": [
			{"id": 1111111111111, "product_id": 22, "variant_id": 4444, "sku": "SKU-A", "quantity": 2}
		]
	}`)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, IDString("5678901234"), event.ID)
	assert.Equal(t, "#1001", event.Name)
	require.Len(t, event.LineItems, 1)
	assert.Equal(t, IDString("1111111111111"), event.LineItems[0].ID)
	assert.Equal(t, IDString("22"), event.LineItems[0].ProductID)
	assert.Equal(t, IDString("4444"), event.LineItems[0].VariantID)
	assert.Equal(t, "SKU-A", event.LineItems[0].SKU)
	assert.Equal(t, 2, event.LineItems[0].Quantity)
}

func TestOrderEventUnmarshalStringIDs(t *testing.T) {
	payload := []byte(`{
		"id": "gid://order/5678901234",
		"name": "#1002",
		"line_items": [
			{"id": "li-1", "variant_id": "gid://variant/4444", "sku": "SKU-B", "quantity": 1}
		]
	}`)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, IDString("gid://order/5678901234"), event.ID)
	require.Len(t, event.LineItems, 1)
	assert.Equal(t, IDString("gid://variant/4444"), event.LineItems[0].VariantID)
}

func TestIDStringUnmarshalRejectsNonScalar(t *testing.T) {
	var id IDString
	assert.Error(t, json.Unmarshal([]byte(`{"nope": 1}`), &id))
}
