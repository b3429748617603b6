package core

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// openIterator is a materialized db_scan result: the whole range is read up
// front (the underlying PrefixStore.Scan already does this), and db_next
// just walks the slice. This trades unbounded-range memory for a much
// simpler host ABI, acceptable at this scale since contract storage ranges
// are small compared to the whole chain state.
type openIterator struct {
	pairs []kvPair
	pos   int
}

// registerHost builds the "env" import namespace every contract links
// against: storage access scoped to the contract's own partition, a
// chain-query escape hatch, a debug log, and signature-verification
// primitives. Mirrors the teacher's registerHost/hostCtx shape in
// virtual_machine.go, generalized from raw opcodes to the named host calls
// this spec defines (§4.5).
func (h *WasmHost) registerHost(store *wasmer.Store, f *callFrame) *wasmer.ImportObject {
	imports := wasmer.NewImportObject()

	iterators := make(map[int32]*openIterator)
	var nextIterID int32

	read := func(ptr, length int32) []byte {
		data := f.mem.Data()
		return append([]byte(nil), data[ptr:ptr+length]...)
	}
	write := func(ptr int32, data []byte) int32 {
		buf := f.mem.Data()
		n := copy(buf[ptr:], data)
		return int32(n)
	}
	chargeGas := func(call HostCall, extraBytes int) error {
		cost := GasCost(call) + uint64(extraBytes)*PerByteStorageCost
		return f.gas.Consume(cost)
	}

	hostDBRead := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen, valPtr, valCap := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			key := read(keyPtr, keyLen)
			if err := chargeGas(HostCallDBRead, len(key)); err != nil {
				return nil, err
			}
			value, ok, err := f.store.Read(key)
			if err != nil {
				return nil, err
			}
			if !ok {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			write(valPtr, value[:min(len(value), int(valCap))])
			return []wasmer.Value{wasmer.NewI32(int32(len(value)))}, nil
		},
	)

	hostDBWrite := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen, valPtr, valLen := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			key, value := read(keyPtr, keyLen), read(valPtr, valLen)
			if err := chargeGas(HostCallDBWrite, len(key)+len(value)); err != nil {
				return nil, err
			}
			if err := f.store.Write(key, value); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		},
	)

	hostDBRemove := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen := args[0].I32(), args[1].I32()
			key := read(keyPtr, keyLen)
			if err := chargeGas(HostCallDBRemove, len(key)); err != nil {
				return nil, err
			}
			if err := f.store.Remove(key); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		},
	)

	hostDBScan := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			minPtr, minLen, maxPtr, maxLen, orderArg := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32(), args[4].I32()
			if err := chargeGas(HostCallDBScan, 0); err != nil {
				return nil, err
			}
			var min, max []byte
			if minLen > 0 {
				min = read(minPtr, minLen)
			}
			if maxLen > 0 {
				max = read(maxPtr, maxLen)
			}
			order := Ascending
			if orderArg == 1 {
				order = Descending
			}
			it, err := f.store.Scan(min, max, order)
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			var pairs []kvPair
			for it.Next() {
				pairs = append(pairs, kvPair{key: append([]byte(nil), it.Key()...), value: append([]byte(nil), it.Value()...)})
			}
			it.Close()
			id := nextIterID
			nextIterID++
			iterators[id] = &openIterator{pairs: pairs}
			return []wasmer.Value{wasmer.NewI32(id)}, nil
		},
	)

	hostDBNext := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			iterID, keyPtr, keyCap, valPtr, valCap := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32(), args[4].I32()
			if err := chargeGas(HostCallDBNext, 0); err != nil {
				return nil, err
			}
			it, ok := iterators[iterID]
			if !ok || it.pos >= len(it.pairs) {
				return []wasmer.Value{wasmer.NewI32(-1), wasmer.NewI32(-1)}, nil
			}
			pair := it.pairs[it.pos]
			it.pos++
			write(keyPtr, pair.key[:min(len(pair.key), int(keyCap))])
			write(valPtr, pair.value[:min(len(pair.value), int(valCap))])
			return []wasmer.Value{wasmer.NewI32(int32(len(pair.key))), wasmer.NewI32(int32(len(pair.value)))}, nil
		},
	)

	hostQueryChain := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			reqPtr, reqLen, respPtr, respCap := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			if err := chargeGas(HostCallQueryChain, int(reqLen)); err != nil {
				return nil, err
			}
			if f.querier == nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			var q QueryRequest
			if err := json.Unmarshal(read(reqPtr, reqLen), &q); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			result, err := f.querier.Handle(q)
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			data, err := json.Marshal(result)
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			write(respPtr, data[:min(len(data), int(respCap))])
			return []wasmer.Value{wasmer.NewI32(int32(len(data)))}, nil
		},
	)

	hostDebug := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, length := args[0].I32(), args[1].I32()
			if err := chargeGas(HostCallDebug, 0); err != nil {
				return nil, err
			}
			logrus.WithField("contract", f.contract.String()).Debug(string(read(ptr, length)))
			return []wasmer.Value{}, nil
		},
	)

	hostAddrValidate := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, length := args[0].I32(), args[1].I32()
			if err := chargeGas(HostCallAddrValidate, 0); err != nil {
				return nil, err
			}
			raw := read(ptr, length)
			b, err := hex.DecodeString(string(raw))
			if err != nil || len(b) != AddrLength {
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(1)}, nil
		},
	)

	hostSha256 := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			inPtr, inLen, outPtr, outCap := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			if err := chargeGas(HostCallSha256, int(inLen)); err != nil {
				return nil, err
			}
			digest := sha256.Sum256(read(inPtr, inLen))
			write(outPtr, digest[:min(len(digest), int(outCap))])
			return []wasmer.Value{wasmer.NewI32(int32(len(digest)))}, nil
		},
	)

	hostEd25519Verify := wasmer.NewFunction(store,
		wasmer.NewFunctionType(
			wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
			wasmer.NewValueTypes(wasmer.I32),
		),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			msgPtr, msgLen := args[0].I32(), args[1].I32()
			sigPtr, sigLen := args[2].I32(), args[3].I32()
			pubPtr, pubLen := args[4].I32(), args[5].I32()
			if err := chargeGas(HostCallEd25519, 0); err != nil {
				return nil, err
			}
			msg, sig, pub := read(msgPtr, msgLen), read(sigPtr, sigLen), read(pubPtr, pubLen)
			if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}
			if ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
				return []wasmer.Value{wasmer.NewI32(1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		},
	)

	imports.Register("env", map[string]wasmer.IntoExtern{
		"db_read":        hostDBRead,
		"db_write":       hostDBWrite,
		"db_remove":      hostDBRemove,
		"db_scan":        hostDBScan,
		"db_next":        hostDBNext,
		"query_chain":    hostQueryChain,
		"debug":          hostDebug,
		"addr_validate":  hostAddrValidate,
		"sha2_256":       hostSha256,
		"ed25519_verify": hostEd25519Verify,
	})

	return imports
}
