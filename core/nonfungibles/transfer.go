package nonfungibles

import (
	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
)

// Transfer moves item to destination on behalf of who.
func (a *Adapter) Transfer(who types.AccountID, collection types.CollectionID, item types.ItemID, destination types.AccountID, budget types.Weight) error {
	return a.mutate(codec.OpTransfer, who, collection, item, budget, destination, item)
}
