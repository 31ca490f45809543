package issuer

import (
	"context"
	"fmt"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
)

// Burn destroys a token and rolls back its event and global supply. Only the
// owner, an approved account or an operator of the owner may burn; admin
// standing alone is not enough. Burn is not gated by pause.
func (is *Issuer) Burn(ctx context.Context, caller access.Principal, id token.ID) error {
	return is.mutate(ctx, "burn", caller, func(tx *txn) error {
		t, ok := tx.token(id)
		if !ok {
			return token.ErrNotFound
		}
		if !tx.isApprovedOrOwner(caller, t) {
			return token.ErrNotAuthorizedToBurn
		}
		e, ok := tx.event(t.EventID)
		if !ok {
			return fmt.Errorf("token %d references missing event %d: %w", id, t.EventID, ErrCounterMismatch)
		}
		e, err := e.Burned()
		if err != nil {
			return err
		}
		if tx.meta.Counters.TotalSupply == 0 {
			return token.ErrSupplyUnderflow
		}
		tx.meta.Counters.TotalSupply--
		tx.putEvent(e)
		tx.burnToken(id)
		if t.Locked {
			tx.emit(activity.Entry{Kind: activity.KindUnlocked, TokenID: activity.TokenRef(id), Account: t.Owner})
		}
		tx.emit(activity.Entry{Kind: activity.KindTransfer, TokenID: activity.TokenRef(id), EventID: activity.EventRef(t.EventID), Target: t.Owner})
		return nil
	})
}
