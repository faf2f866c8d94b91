package docstore

// Op identifies a field operator
type Op int

const (
	OpSet Op = iota
	OpArrayUnion
	OpArrayRemove
	OpIncrement
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpArrayUnion:
		return "arrayUnion"
	case OpArrayRemove:
		return "arrayRemove"
	case OpIncrement:
		return "increment"
	default:
		return "unknown"
	}
}

// Update is a single field operation applied by Batch.Update.
// Path is a field name; dots address nested maps.
type Update struct {
	Value  any
	Path   string
	Values []any
	Delta  int64
	Op     Op
}

// Set overwrites the field
func Set(path string, value any) Update {
	return Update{Op: OpSet, Path: path, Value: value}
}

// ArrayUnion adds each value not already present, creating the array if absent
func ArrayUnion(path string, values ...any) Update {
	return Update{Op: OpArrayUnion, Path: path, Values: values}
}

// ArrayRemove removes every occurrence of each value
func ArrayRemove(path string, values ...any) Update {
	return Update{Op: OpArrayRemove, Path: path, Values: values}
}

// Increment adds delta to a numeric field, treating an absent field as zero
func Increment(path string, delta int64) Update {
	return Update{Op: OpIncrement, Path: path, Delta: delta}
}

// Strings converts ids to operator values
func Strings(ids ...string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// WriteKind identifies a queued write
type WriteKind int

const (
	WriteCreate WriteKind = iota
	WriteSet
	WriteUpdate
	WriteDelete
)

// Write is one queued mutation
type Write struct {
	Data       any
	Collection string
	ID         string
	Updates    []Update
	Kind       WriteKind
}

// Writes records batch mutations in order.
// Backends embed it and implement Commit.
type Writes struct {
	queued []Write
}

func (w *Writes) Create(collection, id string, data any) {
	w.queued = append(w.queued, Write{Kind: WriteCreate, Collection: collection, ID: id, Data: data})
}

func (w *Writes) Set(collection, id string, data any) {
	w.queued = append(w.queued, Write{Kind: WriteSet, Collection: collection, ID: id, Data: data})
}

func (w *Writes) Update(collection, id string, updates ...Update) {
	if len(updates) == 0 {
		return
	}
	w.queued = append(w.queued, Write{Kind: WriteUpdate, Collection: collection, ID: id, Updates: updates})
}

func (w *Writes) Delete(collection, id string) {
	w.queued = append(w.queued, Write{Kind: WriteDelete, Collection: collection, ID: id})
}

func (w *Writes) Len() int {
	return len(w.queued)
}

// Queued returns the writes in the order they were added
func (w *Writes) Queued() []Write {
	return w.queued
}
