package nonfungibles

import (
	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
)

// TypedAttribute encodes key canonically, looks it up with Attribute and
// decodes the stored bytes as V. It reports false when the attribute is
// unknown or does not decode, which today is always.
func TypedAttribute[V any](in Inspect, collection types.CollectionID, item types.ItemID, key any) (V, bool) {
	var zero V
	k, err := codec.EncodeTypedKey(key)
	if err != nil {
		return zero, false
	}
	raw, ok := in.Attribute(collection, item, k)
	if !ok {
		return zero, false
	}
	v, err := codec.DecodeResult[V](raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// TypedCollectionAttribute is TypedAttribute for collection-level keys.
func TypedCollectionAttribute[V any](in Inspect, caller types.AccountID, collection types.CollectionID, key any) (V, bool) {
	var zero V
	k, err := codec.EncodeTypedKey(key)
	if err != nil {
		return zero, false
	}
	raw, ok := in.CollectionAttribute(caller, collection, k)
	if !ok {
		return zero, false
	}
	v, err := codec.DecodeResult[V](raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// SetTypedAttribute encodes key and value and hands them to SetAttribute, so
// it fails exactly when SetAttribute does.
func SetTypedAttribute(m Mutate, collection types.CollectionID, item types.ItemID, key, value any) error {
	k, err := codec.EncodeTypedKey(key)
	if err != nil {
		return err
	}
	v, err := codec.Encode(value)
	if err != nil {
		return err
	}
	return m.SetAttribute(collection, item, k, v)
}

// SetTypedCollectionAttribute is SetTypedAttribute for collection-level keys.
func SetTypedCollectionAttribute(m Mutate, collection types.CollectionID, key, value any) error {
	k, err := codec.EncodeTypedKey(key)
	if err != nil {
		return err
	}
	v, err := codec.Encode(value)
	if err != nil {
		return err
	}
	return m.SetCollectionAttribute(collection, k, v)
}
