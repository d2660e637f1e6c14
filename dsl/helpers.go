package dsl

import (
	"maps"
	"slices"
	"strconv"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/stream"
)

// keyIssue reports a problem with property name at /name.
func keyIssue(s *stream.Stream, name, code string) error {
	return streamskema.Rebase(streamskema.NewIssue(s, code, map[string]string{"key": strconv.Quote(name)}), name)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// nullAccepting is implemented by schemas whose encoding can be JSON null.
type nullAccepting interface{ AcceptsNull() bool }

func acceptsNull(s any) bool {
	n, ok := s.(nullAccepting)
	return ok && n.AcceptsNull()
}

// absentable is implemented by schemas whose values can stand for an absent
// record property.
type absentable[F any] interface{ IsAbsent(v F) bool }

// fieldForm is implemented by schemas that change shape when bound to a
// record property.
type fieldForm[F any] interface {
	fieldSchema() streamskema.Schema[F]
}
