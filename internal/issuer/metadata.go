package issuer

import (
	"strconv"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/token"
)

// Interface identifiers answered by SupportsInterface.
const (
	InterfaceIntrospection uint32 = 0x01ffc9a7
	InterfaceBatchMinting  uint32 = 0xd0def521
	InterfaceOwnership     uint32 = 0x80ac58cd
	InterfaceMetadata      uint32 = 0x5b5e139f
	InterfaceSoulbound     uint32 = 0xb45a3c0e
)

// SupportsInterface answers capability discovery queries.
func (is *Issuer) SupportsInterface(id uint32) bool {
	switch id {
	case InterfaceIntrospection, InterfaceBatchMinting, InterfaceOwnership, InterfaceMetadata:
		return true
	case InterfaceSoulbound:
		return is.ledger.Policy() == token.Locked
	default:
		return false
	}
}

// TokenURI returns baseURI followed by the decimal token id.
func (is *Issuer) TokenURI(id token.ID) (string, error) {
	var (
		uri string
		err error
	)
	is.read(func() {
		if _, ok := is.ledger.Get(id); !ok {
			err = token.ErrNotFound
			return
		}
		uri = is.meta.BaseURI + strconv.FormatUint(uint64(id), 10)
	})
	return uri, err
}

func (is *Issuer) Name() string                { return is.name }
func (is *Issuer) Symbol() string              { return is.symbol }
func (is *Issuer) Owner() access.Principal     { return is.owner }
func (is *Issuer) Policy() token.TransferPolicy { return is.ledger.Policy() }

// Info summarizes the deployment and its global counters.
type Info struct {
	Name          string               `json:"name"`
	Symbol        string               `json:"symbol"`
	Owner         access.Principal     `json:"owner"`
	Policy        token.TransferPolicy `json:"policy"`
	Initialized   bool                 `json:"initialized"`
	Paused        bool                 `json:"paused"`
	BaseURI       string               `json:"base_uri"`
	TotalSupply   uint64               `json:"total_supply"`
	NextTokenID   token.ID             `json:"next_token_id"`
	FreezeSeconds int64                `json:"freeze_duration_seconds"`
	LastSeq       int64                `json:"last_seq"`
}

func (is *Issuer) Info() Info {
	var info Info
	is.read(func() {
		m := is.currentMeta()
		info = Info{
			Name:          is.name,
			Symbol:        is.symbol,
			Owner:         is.owner,
			Policy:        m.Policy,
			Initialized:   m.Initialized,
			Paused:        m.Paused,
			BaseURI:       m.BaseURI,
			TotalSupply:   m.Counters.TotalSupply,
			NextTokenID:   m.Counters.NextTokenID,
			FreezeSeconds: int64(m.Counters.FreezeDuration.Seconds()),
			LastSeq:       m.LastSeq,
		}
	})
	return info
}
