package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `attest issues attendance credentials: one non-fungible token per attendee per event.

Core concepts:
- Event: caller-chosen numeric ID with an optional supply cap (0 = unbounded) and an optional mint expiration.
- Token: minted for exactly one event, held by one principal. IDs are global and never reused.
- Admin: may create events, mint anywhere, grant/revoke roles, pause, unfreeze, set the freeze duration.
- Event minter: may mint for that event and grant minter rights on it.
- Freeze: a held token can be frozen by its holder (or approved/operator) or an admin; only an admin unfreezes.
- Pause: halts event creation, minting and freezing. Burn, transfers and role changes still work.

Workflow:
1) contract_info to see whether the issuer is initialized, paused, and which transfer policy applies.
2) create_event_id (admin), then mint_token / mint_event_to_many_users / mint_user_to_many_events.
3) Batches are all-or-nothing: one failing recipient or event mints nothing.
4) list_notifications with after_seq to follow what changed.

Errors come back as {code, message, recovery_hint} with code one of
UNAUTHORIZED, STATE_CONFLICT, PAUSED, INVALID_PARAMETER.

Docs:
- attest://docs/index
- attest://docs/lifecycle
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "attest://docs/index",
		Name:        "docs_index",
		Title:       "attest docs index",
		Description: "Entry point: tool groups and where to read more.",
		Content: `# attest: Agent Docs Index

## Tool groups

- Setup: ` + "`initialize`" + `, ` + "`contract_info`" + `
- Events: ` + "`create_event_id`" + `, ` + "`event_max_supply`" + `, ` + "`event_total_supply`" + `, ` + "`total_supply`" + `
- Minting: ` + "`mint_token`" + `, ` + "`mint_event_to_many_users`" + `, ` + "`mint_user_to_many_events`" + `
- Roles: ` + "`add_admin`" + `, ` + "`remove_admin`" + `, ` + "`add_event_minter`" + `, ` + "`remove_event_minter`" + ` and the ` + "`is_*`" + ` reads
- Lifecycle: ` + "`freeze`" + `, ` + "`unfreeze`" + `, ` + "`burn`" + `, ` + "`pause`" + `, ` + "`unpause`" + `
- Ownership: ` + "`owner_of`" + `, ` + "`balance_of`" + `, ` + "`approve`" + `, ` + "`set_approval_for_all`" + `, ` + "`transfer_from`" + `, ` + "`locked`" + `
- Notifications: ` + "`list_notifications`" + `

## Docs

- ` + "`attest://docs/lifecycle`" + ` covers token states, check order and the soulbound policy.
`,
	},
	{
		URI:         "attest://docs/lifecycle",
		Name:        "docs_lifecycle",
		Title:       "Token lifecycle and checks",
		Description: "Token states, the order checks run in, and what the soulbound policy changes.",
		Content: `# Token lifecycle

## States

- **Minted**: held, transferable under the transferable policy.
- **Frozen**: cannot be transferred or approved. Burn still works.
- **Burned**: gone. The event and global supply go down by one.

## Check order

Every mutating call checks, in order: initialized, paused, caller standing, then state.
Freeze and unfreeze check that the token exists before caller standing.

## Expiry and caps

- ` + "`mint_expiration`" + ` must be at least 72 hours after event creation. Minting at or after it fails.
- A capped event never holds more live tokens than its cap. Burning frees a slot.

## Soulbound policy

When the issuer runs with ` + "`policy: locked`" + ` every token is locked to its first holder:
transfers always fail, there is no frozen state, and ` + "`locked`" + ` reports true.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
