package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/naoina/toml"

	"github.com/clydemeng/nftbridge/core/types"
)

// Batch is the TOML file format read by LoadBatch:
//
//	StopOnFailure = true
//
//	[[Operations]]
//	Kind = "mint"
//	Caller = "0x..."
//	Collection = "0x..."
//	Item = 42
type Batch struct {
	StopOnFailure bool
	Operations    []Operation
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var batchTOML = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Collections lists the distinct collections the batch touches, in order of
// first use.
func (b *Batch) Collections() []types.CollectionID {
	seen := mapset.NewThreadUnsafeSet[types.CollectionID]()
	var out []types.CollectionID
	for _, op := range b.Operations {
		if seen.Add(op.Collection) {
			out = append(out, op.Collection)
		}
	}
	return out
}

// DecodeBatch parses a batch.
func DecodeBatch(r io.Reader) (*Batch, error) {
	b := new(Batch)
	if err := batchTOML.NewDecoder(bufio.NewReader(r)).Decode(b); err != nil {
		return nil, err
	}
	for i, op := range b.Operations {
		switch op.Kind {
		case OpMint, OpBurn, OpTransfer, OpOwner:
		default:
			return nil, fmt.Errorf("operation %d: unknown kind %q", i, op.Kind)
		}
	}
	return b, nil
}

// LoadBatch reads a batch file.
func LoadBatch(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := DecodeBatch(f)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = fmt.Errorf("%s, %w", path, err)
	}
	return b, err
}
