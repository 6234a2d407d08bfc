package platform

import "encoding/json"

// graphqlRequest is the wire format of an admin API call
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the admin API's response envelope. Errors carries
// request-level failures; mutation validation errors arrive inside Data as
// userErrors lists.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// userError is a structured validation error attached to a mutation payload
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func userErrorMessages(errs []userError) []string {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return messages
}

// ---------------------------------------------------------------------------
// Mutation / query payload shapes
// ---------------------------------------------------------------------------

type webhookSubscriptionCreateData struct {
	WebhookSubscriptionCreate struct {
		WebhookSubscription *struct {
			ID string `json:"id"`
		} `json:"webhookSubscription"`
		UserErrors []userError `json:"userErrors"`
	} `json:"webhookSubscriptionCreate"`
}

type fulfillmentServiceCreateData struct {
	FulfillmentServiceCreate struct {
		FulfillmentService *struct {
			ID          string `json:"id"`
			ServiceName string `json:"serviceName"`
		} `json:"fulfillmentService"`
		UserErrors []userError `json:"userErrors"`
	} `json:"fulfillmentServiceCreate"`
}

type fulfillmentServiceListData struct {
	Shop struct {
		FulfillmentServices []struct {
			ID          string `json:"id"`
			ServiceName string `json:"serviceName"`
		} `json:"fulfillmentServices"`
	} `json:"shop"`
}

type carrierServiceCreateData struct {
	CarrierServiceCreate struct {
		CarrierService *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"carrierService"`
		UserErrors []userError `json:"userErrors"`
	} `json:"carrierServiceCreate"`
}

type carrierServiceListData struct {
	CarrierServices struct {
		Edges []struct {
			Node struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"carrierServices"`
}

type fulfillmentServiceLocationData struct {
	FulfillmentService *struct {
		Location *struct {
			ID string `json:"id"`
		} `json:"location"`
	} `json:"fulfillmentService"`
}

type variantInventoryData struct {
	Nodes []*struct {
		ID            string `json:"id"`
		InventoryItem *struct {
			ID string `json:"id"`
		} `json:"inventoryItem"`
	} `json:"nodes"`
}

type locationListData struct {
	Locations struct {
		Nodes []struct {
			ID                   string `json:"id"`
			FulfillsOnlineOrders bool   `json:"fulfillsOnlineOrders"`
		} `json:"nodes"`
	} `json:"locations"`
}

type inventorySetQuantitiesData struct {
	InventorySetQuantities struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"inventorySetQuantities"`
}

type inventoryActivateData struct {
	InventoryActivate struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"inventoryActivate"`
}

type productListData struct {
	Products struct {
		Nodes []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Variants struct {
				Nodes []struct {
					ID    string `json:"id"`
					Title string `json:"title"`
					SKU   string `json:"sku"`
				} `json:"nodes"`
			} `json:"variants"`
		} `json:"nodes"`
	} `json:"products"`
}

type fulfillmentOrderListData struct {
	Order *struct {
		FulfillmentOrders struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"fulfillmentOrders"`
	} `json:"order"`
}

type fulfillmentCreateData struct {
	FulfillmentCreate struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"fulfillmentCreate"`
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

const (
	webhookSubscriptionCreateQuery = `
mutation WebhookSubscriptionCreate($topic: WebhookSubscriptionTopic!, $callbackUrl: URL!, $format: WebhookSubscriptionFormat!) {
  webhookSubscriptionCreate(topic: $topic, webhookSubscription: {callbackUrl: $callbackUrl, format: $format}) {
    webhookSubscription { id }
    userErrors { field message }
  }
}`

	fulfillmentServiceCreateQuery = `
mutation FulfillmentServiceCreate($name: String!, $callbackUrl: URL!, $trackingSupport: Boolean, $inventoryManagement: Boolean, $requiresShippingMethod: Boolean) {
  fulfillmentServiceCreate(name: $name, callbackUrl: $callbackUrl, trackingSupport: $trackingSupport, inventoryManagement: $inventoryManagement, requiresShippingMethod: $requiresShippingMethod) {
    fulfillmentService { id serviceName }
    userErrors { field message }
  }
}`

	fulfillmentServiceListQuery = `
query FulfillmentServiceList {
  shop {
    fulfillmentServices { id serviceName }
  }
}`

	carrierServiceCreateQuery = `
mutation CarrierServiceCreate($input: DeliveryCarrierServiceCreateInput!) {
  carrierServiceCreate(input: $input) {
    carrierService { id name }
    userErrors { field message }
  }
}`

	carrierServiceListQuery = `
query CarrierServices($first: Int!, $query: String) {
  carrierServices(first: $first, query: $query) {
    edges {
      node { id name }
    }
  }
}`

	fulfillmentServiceLocationQuery = `
query FulfillmentServiceLocation($id: ID!) {
  fulfillmentService(id: $id) {
    location { id }
  }
}`

	variantInventoryQuery = `
query VariantInventory($ids: [ID!]!) {
  nodes(ids: $ids) {
    ... on ProductVariant {
      id
      inventoryItem { id }
    }
  }
}`

	locationListQuery = `
query Locations($first: Int!) {
  locations(first: $first) {
    nodes { id fulfillsOnlineOrders }
  }
}`

	inventorySetQuantitiesQuery = `
mutation InventorySetQuantities($inventoryItemId: ID!, $locationId: ID!, $quantity: Int!, $reason: String!) {
  inventorySetQuantities(
    input: {
      name: "available"
      reason: $reason
      ignoreCompareQuantity: true
      quantities: [{inventoryItemId: $inventoryItemId, locationId: $locationId, quantity: $quantity}]
    }
  ) {
    userErrors { field message }
  }
}`

	inventoryActivateQuery = `
mutation InventoryActivate($inventoryItemId: ID!, $locationId: ID!) {
  inventoryActivate(inventoryItemId: $inventoryItemId, locationId: $locationId) {
    userErrors { field message }
  }
}`

	productListQuery = `
query ProductCatalog($first: Int!, $variantsFirst: Int!) {
  products(first: $first) {
    nodes {
      id
      title
      variants(first: $variantsFirst) {
        nodes { id title sku }
      }
    }
  }
}`

	fulfillmentOrderListQuery = `
query FulfillmentOrders($id: ID!) {
  order(id: $id) {
    fulfillmentOrders(first: 5) {
      edges {
        node { id }
      }
    }
  }
}`

	fulfillmentCreateQuery = `
mutation FulfillmentCreate($fulfillmentOrderId: ID!, $company: String!, $number: String!, $url: URL) {
  fulfillmentCreate(
    fulfillment: {
      notifyCustomer: false
      trackingInfo: {company: $company, number: $number, url: $url}
      lineItemsByFulfillmentOrder: [{fulfillmentOrderId: $fulfillmentOrderId}]
    }
  ) {
    userErrors { field message }
  }
}`
)
