package resolve

import "github.com/ashfield-docs/autoresolve/internal/docvalue"

// The engine's data model (spec §3) is hosted in internal/docvalue so that
// the patch primitive (spec §6.2, internal/patch) can depend on the same
// Value/Diff types without importing the engine itself. These aliases let
// the rest of this package read as if the types were declared locally.

type (
	Value     = docvalue.Value
	Kind      = docvalue.Kind
	Diff      = docvalue.Diff
	DiffEntry = docvalue.DiffEntry
	OpKind    = docvalue.OpKind
	Key       = docvalue.Key

	SequenceDiffBuilder = docvalue.SequenceDiffBuilder
	MappingDiffBuilder  = docvalue.MappingDiffBuilder
)

const (
	KindNull     = docvalue.KindNull
	KindBool     = docvalue.KindBool
	KindNumber   = docvalue.KindNumber
	KindString   = docvalue.KindString
	KindSequence = docvalue.KindSequence
	KindMapping  = docvalue.KindMapping

	OpAddRange    = docvalue.OpAddRange
	OpRemoveRange = docvalue.OpRemoveRange
	OpReplace     = docvalue.OpReplace
	OpPatch       = docvalue.OpPatch
	OpAdd         = docvalue.OpAdd
	OpRemove      = docvalue.OpRemove
)

var (
	Null        = docvalue.Null
	Bool        = docvalue.Bool
	Number      = docvalue.Number
	String      = docvalue.String
	NewSequence = docvalue.NewSequence
	NewMapping  = docvalue.NewMapping

	SeqKey    = docvalue.SeqKey
	MapKey    = docvalue.MapKey
	AsMapping = docvalue.AsMapping

	NewSequenceDiffBuilder = docvalue.NewSequenceDiffBuilder
	NewMappingDiffBuilder  = docvalue.NewMappingDiffBuilder
	OffsetOp               = docvalue.OffsetOp
)

func malformedDiff(path string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	var details any
	if ve, ok := err.(docvalue.ValidationError); ok {
		details = ve.Details
	}
	return Error{Kind: ErrMalformedDiff, Path: path, Message: msg, Details: details}
}
