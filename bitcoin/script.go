package bitcoin

import (
	"github.com/btcsuite/btcd/txscript"
)

// Output script templates. Each returns the exact script a full node
// would expect for the corresponding address kind.

func p2pkhScript(hash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(hash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

func p2shScript(hash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(hash).
		AddOp(txscript.OP_EQUAL).
		Script()
}

func witnessScript(version byte, program []byte) ([]byte, error) {
	op := byte(txscript.OP_0)
	if version > 0 {
		op = txscript.OP_1 - 1 + version
	}
	return txscript.NewScriptBuilder().
		AddOp(op).
		AddData(program).
		Script()
}
