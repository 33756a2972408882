package arbor

// Change is the notification published for every applied field mutation.
// Only the field name and the new value are carried; subscribers that need
// the old value must track it themselves.
type Change struct {
	Field string
	Value any
}

// FieldRefresh is the pseudo-field of the single trailing notification
// emitted when the outermost Batch scope exits after at least one change.
// The registry maps it to the adaptor's ForceUpdate so backends can coalesce
// expensive recomputation (e.g. bounding-box refits).
const FieldRefresh = "refresh"

// Subscription identifies a registered change subscriber so it can be
// removed later.
type Subscription struct {
	id int
}

type subscriber struct {
	id int
	fn func(Change)
}

// modelIDCounter is a plain counter; arbor is single-threaded so no atomic.
// IDs start at 1 and are never reused; 0 means "no model".
var modelIDCounter uint32

func nextModelID() uint32 {
	modelIDCounter++
	return modelIDCounter
}

// emitter is the notification core embedded in every model object.
type emitter struct {
	subs       []subscriber
	nextSubID  int
	batchDepth int
	batchDirty bool
}

// OnChange registers a subscriber. Subscribers are notified synchronously,
// in registration order, on the caller's goroutine.
func (e *emitter) OnChange(fn func(Change)) Subscription {
	e.nextSubID++
	e.subs = append(e.subs, subscriber{id: e.nextSubID, fn: fn})
	return Subscription{id: e.nextSubID}
}

// Unsubscribe removes a subscriber. Safe to call from inside a notification:
// a delivery pass iterates over a snapshot, so removal takes effect on the
// next emit.
func (e *emitter) Unsubscribe(s Subscription) {
	for i, sub := range e.subs {
		if sub.id == s.id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// emit publishes a change to all subscribers. Callers are responsible for
// idempotent-set elision: emit must only be reached when the value actually
// changed.
func (e *emitter) emit(field string, value any) {
	if e.batchDepth > 0 {
		e.batchDirty = true
	}
	if len(e.subs) == 0 {
		return
	}
	snapshot := make([]subscriber, len(e.subs))
	copy(snapshot, e.subs)
	c := Change{Field: field, Value: value}
	for _, sub := range snapshot {
		sub.fn(c)
	}
}

// Batch runs fn inside a batching scope. Individual notifications still fire
// as normal; when the outermost scope exits, a single FieldRefresh
// notification follows if anything changed inside. Nested calls are
// collapsed into the outermost scope.
func (e *emitter) Batch(fn func()) {
	e.batchDepth++
	defer func() {
		e.batchDepth--
		if e.batchDepth == 0 && e.batchDirty {
			e.batchDirty = false
			e.emit(FieldRefresh, nil)
		}
	}()
	fn()
}

// Model is implemented by every evented model object (nodes, views,
// canvases). The unexported method closes the set to this package.
type Model interface {
	// ModelID returns the stable unique identity of this object, assigned
	// at construction and never reused. It is the join key between a model
	// object and its backend adaptor.
	ModelID() uint32
	// OnChange subscribes to field-change notifications.
	OnChange(fn func(Change)) Subscription
	// Unsubscribe removes a previously registered subscriber.
	Unsubscribe(s Subscription)

	// currentFields returns every field's name and current value, in the
	// order the registry synchronizes them into a fresh adaptor.
	currentFields() []Change
}

// modelBase carries identity and the notification core.
type modelBase struct {
	id uint32
	emitter
}

func (b *modelBase) init() {
	b.id = nextModelID()
}

// ModelID returns the stable unique identity of this object.
func (b *modelBase) ModelID() uint32 {
	return b.id
}
