package mcp

// ToolDefinition describes one tool in the catalog.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "minimum": 0, "description": desc}
}

func text(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func list(itemType, desc string) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": map[string]any{"type": itemType}}
}

var (
	eventIDProp = integer("Event ID")
	tokenIDProp = integer("Token ID")
	stateProp   = text("Opaque initial state label recorded with each minted token")
)

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Setup
		{
			Name:        "initialize",
			Description: "One-time setup by the owner: sets the metadata base URI and grants admin to the owner and extra admins",
			InputSchema: object(map[string]any{
				"base_uri": text("Prefix for token metadata URIs"),
				"admins":   list("string", "Extra admin principals"),
			}, "base_uri"),
		},
		{
			Name:        "contract_info",
			Description: "Deployment identity, policy, pause state and global counters",
			InputSchema: object(map[string]any{}),
		},

		// Events
		{
			Name:        "create_event_id",
			Description: "Register a new event and make the organizer its first minter (admin only)",
			InputSchema: object(map[string]any{
				"event_id":        integer("Caller-chosen event ID"),
				"max_supply":      integer("Issuance cap, 0 for unbounded"),
				"mint_expiration": integer("Unix seconds after which minting closes, 0 never; at least 72h ahead"),
				"organizer":       text("Principal granted minter rights on the event"),
			}, "event_id", "organizer"),
		},
		{
			Name:        "event_max_supply",
			Description: "Issuance cap of an event; unknown events report 0",
			InputSchema: object(map[string]any{"event_id": eventIDProp}, "event_id"),
		},
		{
			Name:        "event_total_supply",
			Description: "Live tokens of an event; unknown events report 0",
			InputSchema: object(map[string]any{"event_id": eventIDProp}, "event_id"),
		},
		{
			Name:        "total_supply",
			Description: "Live tokens across all events",
			InputSchema: object(map[string]any{}),
		},

		// Minting
		{
			Name:        "mint_token",
			Description: "Mint one token of an event to a recipient (admin or event minter)",
			InputSchema: object(map[string]any{
				"event_id":      eventIDProp,
				"to":            text("Recipient principal"),
				"initial_state": stateProp,
			}, "event_id", "to"),
		},
		{
			Name:        "mint_event_to_many_users",
			Description: "Mint one token of an event to each recipient; all or nothing",
			InputSchema: object(map[string]any{
				"event_id":      eventIDProp,
				"to":            list("string", "Recipient principals"),
				"initial_state": stateProp,
			}, "event_id", "to"),
		},
		{
			Name:        "mint_user_to_many_events",
			Description: "Mint one token of each event to a single recipient (admin only); all or nothing",
			InputSchema: object(map[string]any{
				"event_ids":     list("integer", "Event IDs"),
				"to":            text("Recipient principal"),
				"initial_state": stateProp,
			}, "event_ids", "to"),
		},
		{
			Name:        "token_event",
			Description: "Event a token was minted for",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "token_uri",
			Description: "Metadata URI of a token",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},

		// Access control
		{
			Name:        "add_admin",
			Description: "Grant admin (admin only)",
			InputSchema: object(map[string]any{"account": text("Principal")}, "account"),
		},
		{
			Name:        "remove_admin",
			Description: "Revoke admin (admin only)",
			InputSchema: object(map[string]any{"account": text("Principal")}, "account"),
		},
		{
			Name:        "is_admin",
			Description: "Whether a principal is an admin",
			InputSchema: object(map[string]any{"account": text("Principal")}, "account"),
		},
		{
			Name:        "add_event_minter",
			Description: "Grant minter rights on an event (admin or that event's minter)",
			InputSchema: object(map[string]any{"event_id": eventIDProp, "account": text("Principal")}, "event_id", "account"),
		},
		{
			Name:        "remove_event_minter",
			Description: "Revoke minter rights on an event (admin only)",
			InputSchema: object(map[string]any{"event_id": eventIDProp, "account": text("Principal")}, "event_id", "account"),
		},
		{
			Name:        "is_event_minter",
			Description: "Whether a principal may mint for an event",
			InputSchema: object(map[string]any{"event_id": eventIDProp, "account": text("Principal")}, "event_id", "account"),
		},

		// Freeze, burn, pause
		{
			Name:        "set_freeze_duration",
			Description: "Set the global freeze review window in seconds (admin only)",
			InputSchema: object(map[string]any{"seconds": integer("Duration in seconds")}, "seconds"),
		},
		{
			Name:        "freeze",
			Description: "Freeze a token (owner, approved, operator or admin)",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "unfreeze",
			Description: "Unfreeze a token (admin only)",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "is_frozen",
			Description: "Whether a token is frozen",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "get_freeze_time",
			Description: "When a token was frozen, with the review time under the current freeze duration",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "burn",
			Description: "Destroy a token (owner, approved or operator)",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "pause",
			Description: "Halt issuance and freezing (admin only)",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "unpause",
			Description: "Resume issuance and freezing (admin only)",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "paused",
			Description: "Whether the issuer is paused",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "supports_interface",
			Description: "Capability discovery by 4-byte interface ID",
			InputSchema: object(map[string]any{"interface_id": text("Interface ID, e.g. 0x80ac58cd")}, "interface_id"),
		},

		// Ownership
		{
			Name:        "owner_of",
			Description: "Current holder of a token",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "balance_of",
			Description: "Number of live tokens held by a principal",
			InputSchema: object(map[string]any{"account": text("Principal")}, "account"),
		},
		{
			Name:        "get_approved",
			Description: "Principal approved to move a token, empty if none",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},
		{
			Name:        "is_approved_for_all",
			Description: "Whether operator may act on all of owner's tokens",
			InputSchema: object(map[string]any{"owner": text("Holder"), "operator": text("Operator")}, "owner", "operator"),
		},
		{
			Name:        "approve",
			Description: "Approve a principal to move one token (owner or operator)",
			InputSchema: object(map[string]any{"to": text("Approved principal"), "token_id": tokenIDProp}, "to", "token_id"),
		},
		{
			Name:        "set_approval_for_all",
			Description: "Grant or revoke an operator over all of the caller's tokens",
			InputSchema: object(map[string]any{
				"operator": text("Operator principal"),
				"approved": map[string]any{"type": "boolean", "description": "Grant when true, revoke when false"},
			}, "operator", "approved"),
		},
		{
			Name:        "transfer_from",
			Description: "Move a token; rejected while frozen or under the soulbound policy",
			InputSchema: object(map[string]any{
				"from":     text("Current holder"),
				"to":       text("Recipient"),
				"token_id": tokenIDProp,
			}, "from", "to", "token_id"),
		},
		{
			Name:        "locked",
			Description: "Whether a token is soulbound",
			InputSchema: object(map[string]any{"token_id": tokenIDProp}, "token_id"),
		},

		// Notifications
		{
			Name:        "list_notifications",
			Description: "Notifications in commit order, optionally filtered by kind, event or token",
			InputSchema: object(map[string]any{
				"kind":      text("Notification kind, e.g. event_token"),
				"event_id":  eventIDProp,
				"token_id":  tokenIDProp,
				"after_seq": integer("Return entries with a larger sequence number"),
				"limit":     integer("Maximum entries, default 50, capped at 500"),
			}),
		},
	}
}
