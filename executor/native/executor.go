// Package native is the in-process reference executor. Contracts are Go
// programs looked up by code kind, contract state lives in goleveldb and every
// call runs against a write journal that is flushed only when the call commits
// and the program did not revert.
package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"golang.org/x/crypto/blake2b"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// EngineName is what Engine reports.
const EngineName = "native"

const programCacheSize = 128

var (
	ErrClosed        = errors.New("native: executor closed")
	ErrUnknownKind   = errors.New("native: unknown code kind")
	ErrAlreadyExists = errors.New("native: contract already deployed")
)

// contractRecord is what gets stored under contractKey.
type contractRecord struct {
	Kind string
	Code []byte
}

// Executor runs registered programs against a goleveldb store. Calls are
// serialized.
type Executor struct {
	mu       sync.Mutex
	db       *leveldb.DB
	ownsDB   bool
	programs *lru.Cache // types.AccountID -> Program
	sched    Schedule
}

// New wraps an open database. The caller keeps ownership of db.
func New(db *leveldb.DB) (*Executor, error) {
	return newExecutor(db, false)
}

// NewMemory returns an executor over a fresh in-memory store.
func NewMemory() (*Executor, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return newExecutor(db, true)
}

// Open opens (or creates) the store at path.
func Open(path string) (*Executor, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("native: open %s: %w", path, err)
	}
	return newExecutor(db, true)
}

func newExecutor(db *leveldb.DB, owns bool) (*Executor, error) {
	cache, err := lru.New(programCacheSize)
	if err != nil {
		return nil, err
	}
	return &Executor{db: db, ownsDB: owns, programs: cache, sched: DefaultSchedule}, nil
}

// SetSchedule replaces the weight schedule used by later calls.
func (e *Executor) SetSchedule(s Schedule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sched = s
}

// Close releases the store if the executor opened it.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil
	}
	var err error
	if e.ownsDB {
		err = e.db.Close()
	}
	e.db = nil
	e.programs.Purge()
	return err
}

func (e *Executor) Engine() string { return EngineName }

// ContractAddress derives the address Deploy assigns. It depends on the
// deployer, the code and the salt only.
func ContractAddress(deployer types.AccountID, kind string, code, salt []byte) types.AccountID {
	codeHash := blake2b.Sum256(append([]byte(kind+":"), code...))
	buf := make([]byte, 0, types.AccountIDLength*2+len(salt))
	buf = append(buf, deployer[:]...)
	buf = append(buf, codeHash[:]...)
	buf = append(buf, salt...)
	return types.AccountID(blake2b.Sum256(buf))
}

// Deploy stores code of the given kind and returns its address.
func (e *Executor) Deploy(deployer types.AccountID, kind string, code, salt []byte) (types.AccountID, error) {
	factory, ok := lookupCode(kind)
	if !ok {
		return types.AccountID{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	addr := ContractAddress(deployer, kind, code, salt)
	prog, err := factory(addr, code)
	if err != nil {
		return types.AccountID{}, fmt.Errorf("native: load %s code: %w", kind, err)
	}
	rec, err := codec.Encode(contractRecord{Kind: kind, Code: code})
	if err != nil {
		return types.AccountID{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return types.AccountID{}, ErrClosed
	}
	if ok, err := e.db.Has(contractKey(addr), nil); err != nil {
		return types.AccountID{}, err
	} else if ok {
		return types.AccountID{}, fmt.Errorf("%w: %s", ErrAlreadyExists, addr)
	}
	if err := e.db.Put(contractKey(addr), rec, nil); err != nil {
		return types.AccountID{}, err
	}
	e.programs.Add(addr, prog)
	log.Info("Deployed contract", "address", addr, "kind", kind, "code", len(code), "deployer", deployer)
	return addr, nil
}

// SetBalance overwrites the free balance of who.
func (e *Executor) SetBalance(who types.AccountID, amount *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return ErrClosed
	}
	b := amount.Bytes32()
	return e.db.Put(balanceKey(who), b[:], nil)
}

// Balance returns the free balance of who.
func (e *Executor) Balance(who types.AccountID) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil, ErrClosed
	}
	return readBalance(newOverlay(e.db), who)
}

func readBalance(st *overlay, who types.AccountID) (*uint256.Int, error) {
	raw, ok, err := st.get(balanceKey(who))
	if err != nil || !ok {
		return new(uint256.Int), err
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func writeBalance(st *overlay, who types.AccountID, v *uint256.Int) {
	b := v.Bytes32()
	st.put(balanceKey(who), b[:])
}

// Call runs one call. Failures that stop the program come back as
// *vm.DispatchError; a program that reverts returns normally with
// types.FlagRevert set and none of its writes applied.
func (e *Executor) Call(meta *vm.CallMetadata) (*types.ExecReturn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil, vm.NewDispatchError(tracing.ReasonExecutorMissing, meta.Target, ErrClosed)
	}
	base, release, err := view(e.db, meta.Commit)
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTrapped, meta.Target, err)
	}
	defer release()

	st := newOverlay(base)
	m := &meter{limit: meta.Budget, target: meta.Target}
	if err := m.charge(e.sched.Base); err != nil {
		return nil, err
	}
	if err := m.chargeBytes(e.sched.PerByte, len(meta.Data)); err != nil {
		return nil, err
	}

	prog, err := e.program(st, meta.Target)
	if err != nil {
		return nil, err
	}
	if meta.Determinism == types.Enforced && !prog.Deterministic() {
		return nil, vm.NewDispatchError(tracing.ReasonNondeterministic, meta.Target,
			errors.New("program is not deterministic"))
	}
	if err := transfer(st, meta); err != nil {
		return nil, err
	}

	ctx := &Context{
		Caller:       meta.Caller,
		Address:      meta.Target,
		Value:        meta.ValueOrZero(),
		Input:        append([]byte(nil), meta.Data...),
		AllowReentry: meta.AllowReentry,
		Determinism:  meta.Determinism,
		state:        st,
		meter:        m,
		sched:        &e.sched,
	}
	flags, out, err := run(prog, ctx)
	if err != nil {
		var derr *vm.DispatchError
		if errors.As(err, &derr) {
			return nil, derr
		}
		return nil, vm.NewDispatchError(tracing.ReasonTrapped, meta.Target, err)
	}
	if err := m.chargeBytes(e.sched.PerByte, len(out)); err != nil {
		return nil, err
	}
	ret := &types.ExecReturn{Flags: flags, Data: out, GasConsumed: m.consumed}
	if ret.Reverted() {
		return ret, nil
	}
	if limit := meta.StorageDepositLimit; limit != nil && limit.CmpUint64(ctx.deposit) < 0 {
		return nil, vm.NewDispatchError(tracing.ReasonStorageDepositLimit, meta.Target,
			fmt.Errorf("deposit %d exceeds limit %s", ctx.deposit, limit))
	}
	if meta.Commit {
		if err := st.flush(e.db); err != nil {
			return nil, vm.NewDispatchError(tracing.ReasonTrapped, meta.Target, fmt.Errorf("flush: %w", err))
		}
	}
	return ret, nil
}

// program resolves the code deployed at addr.
func (e *Executor) program(st *overlay, addr types.AccountID) (Program, error) {
	if v, ok := e.programs.Get(addr); ok {
		return v.(Program), nil
	}
	raw, ok, err := st.get(contractKey(addr))
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTrapped, addr, err)
	}
	if !ok {
		return nil, vm.NewDispatchError(tracing.ReasonExecutorMissing, addr, vm.ErrExecutorMissing)
	}
	rec, err := codec.DecodeResult[contractRecord](raw)
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTrapped, addr, fmt.Errorf("contract record: %w", err))
	}
	factory, ok := lookupCode(rec.Kind)
	if !ok {
		return nil, vm.NewDispatchError(tracing.ReasonExecutorMissing, addr, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind))
	}
	prog, err := factory(addr, rec.Code)
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTrapped, addr, err)
	}
	e.programs.Add(addr, prog)
	return prog, nil
}

// transfer moves the call value from caller to target inside the journal.
func transfer(st *overlay, meta *vm.CallMetadata) error {
	value := meta.ValueOrZero()
	if value.IsZero() {
		return nil
	}
	from, err := readBalance(st, meta.Caller)
	if err != nil {
		return vm.NewDispatchError(tracing.ReasonTrapped, meta.Target, err)
	}
	if from.Lt(value) {
		return vm.NewDispatchError(tracing.ReasonInsufficientBalance, meta.Target,
			fmt.Errorf("balance %s below value %s", from, value))
	}
	to, err := readBalance(st, meta.Target)
	if err != nil {
		return vm.NewDispatchError(tracing.ReasonTrapped, meta.Target, err)
	}
	writeBalance(st, meta.Caller, new(uint256.Int).Sub(from, value))
	writeBalance(st, meta.Target, new(uint256.Int).Add(to, value))
	return nil
}

// run calls the program, turning a panic into a trap.
func run(prog Program, ctx *Context) (flags types.ReturnFlags, out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			flags, out, err = 0, nil, fmt.Errorf("program panicked: %v", r)
		}
	}()
	return prog.Call(ctx)
}
