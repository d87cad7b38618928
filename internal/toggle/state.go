package toggle

import (
	"fmt"
	"sort"
)

// Guard is a confirmation requirement attached to a toggle request.
type Guard struct {
	Message      string
	ConfirmLabel string
}

// Pending is a guarded toggle awaiting confirmation.
type Pending struct {
	Setting string
	Target  bool
	Guard   Guard
}

// PendingPolicy decides what a guarded request does while another is pending.
type PendingPolicy string

const (
	// PendingReplace discards the earlier pending toggle.
	PendingReplace PendingPolicy = "replace"
	// PendingReject keeps the earlier one and fails the new request.
	PendingReject PendingPolicy = "reject"
)

// GuardTarget decides the value a confirmed guarded toggle writes.
type GuardTarget string

const (
	// TargetEnable always writes true.
	TargetEnable GuardTarget = "enable"
	// TargetNegate writes the negation of the value seen at request time.
	TargetNegate GuardTarget = "negate"
)

// Policy bundles the tunable transition rules.
type Policy struct {
	Pending PendingPolicy
	Target  GuardTarget
}

// DefaultPolicy replaces pending requests and enables on confirmation.
func DefaultPolicy() Policy {
	return Policy{Pending: PendingReplace, Target: TargetEnable}
}

// ParsePolicy maps configuration strings onto a Policy. Unknown values keep
// the defaults.
func ParsePolicy(pending, target string) Policy {
	p := DefaultPolicy()
	if PendingPolicy(pending) == PendingReject {
		p.Pending = PendingReject
	}
	if GuardTarget(target) == TargetNegate {
		p.Target = TargetNegate
	}
	return p
}

// State is an immutable view of the snapshot and the pending slot. Every
// transition returns a new State and never mutates its receiver.
type State struct {
	snapshot map[string]bool
	pending  *Pending
}

// NewState copies snapshot into a fresh State with nothing pending.
func NewState(snapshot map[string]bool) State {
	return State{snapshot: copySnapshot(snapshot)}
}

// Value returns the current value of setting.
func (s State) Value(setting string) (bool, bool) {
	v, ok := s.snapshot[setting]
	return v, ok
}

// Snapshot returns a copy of every setting value.
func (s State) Snapshot() map[string]bool {
	return copySnapshot(s.snapshot)
}

// Settings returns the known setting names, sorted.
func (s State) Settings() []string {
	names := make([]string, 0, len(s.snapshot))
	for name := range s.snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pending returns the pending toggle, if any.
func (s State) Pending() (Pending, bool) {
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

func (s State) with(setting string, value bool) State {
	next := State{snapshot: copySnapshot(s.snapshot), pending: s.pending}
	next.snapshot[setting] = value
	return next
}

func (s State) withPending(p *Pending) State {
	return State{snapshot: s.snapshot, pending: p}
}

// Write is a store write the caller must perform before adopting Next.
type Write struct {
	Setting string
	Value   bool
}

// Transition is the outcome of a pure state step.
type Transition struct {
	Next State
	// Write is nil when the step touches only in-memory state.
	Write *Write
}

// Request computes the result of toggling setting. Without a guard the
// transition flips the value and carries the matching write. With a guard it
// only fills the pending slot.
func Request(s State, setting string, guard *Guard, policy Policy) (Transition, error) {
	value, ok := s.Value(setting)
	if !ok {
		return Transition{Next: s}, fmt.Errorf("%w: %q", ErrInvalidSetting, setting)
	}

	if guard == nil {
		return Transition{
			Next:  s.with(setting, !value),
			Write: &Write{Setting: setting, Value: !value},
		}, nil
	}

	if s.pending != nil && policy.Pending == PendingReject {
		return Transition{Next: s}, fmt.Errorf("%w: %s", ErrConfirmationPending, s.pending.Setting)
	}

	target := true
	if policy.Target == TargetNegate {
		target = !value
	}
	return Transition{
		Next: s.withPending(&Pending{Setting: setting, Target: target, Guard: *guard}),
	}, nil
}

// Confirm applies the pending toggle. Without one it returns s unchanged.
func Confirm(s State) Transition {
	if s.pending == nil {
		return Transition{Next: s}
	}
	p := *s.pending
	return Transition{
		Next:  s.with(p.Setting, p.Target).withPending(nil),
		Write: &Write{Setting: p.Setting, Value: p.Target},
	}
}

// Cancel drops the pending toggle.
func Cancel(s State) State {
	if s.pending == nil {
		return s
	}
	return s.withPending(nil)
}

func copySnapshot(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
