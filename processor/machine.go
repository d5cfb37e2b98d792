package processor

import (
	"panelstats/api/models"
)

// State is the position of the segmentation machine in the panel's UI flow.
type State int

const (
	StateIdle State = iota
	StateSessionActive
	StateVisitOpen
	StateContentOpen
)

func (s State) String() string {
	switch s {
	case StateSessionActive:
		return "SESSION_ACTIVE"
	case StateVisitOpen:
		return "VISIT_OPEN"
	case StateContentOpen:
		return "CONTENT_OPEN"
	default:
		return "IDLE"
	}
}

type transitionKey struct {
	from   State
	signal Signal
}

type transition struct {
	next   State
	effect func(m *Machine, label string, timestamp float64)
}

// transitions is the complete table; any (state, signal) pair missing from
// it leaves the machine untouched.
var transitions = map[transitionKey]transition{
	{StateIdle, SignalStartSession}:          {StateSessionActive, (*Machine).openSession},
	{StateSessionActive, SignalExhibitEntry}: {StateVisitOpen, (*Machine).openVisit},
	{StateVisitOpen, SignalExhibitEntry}:     {StateVisitOpen, (*Machine).switchVisit},
	{StateVisitOpen, SignalContentOpen}:      {StateContentOpen, (*Machine).openContent},
	{StateContentOpen, SignalSubAction}:      {StateContentOpen, (*Machine).recordAction},
	{StateContentOpen, SignalExhibitClose}:   {StateSessionActive, (*Machine).closeVisit},

	{StateIdle, SignalEndSession}:          {StateIdle, (*Machine).closeSession},
	{StateSessionActive, SignalEndSession}: {StateIdle, (*Machine).closeSession},
	{StateVisitOpen, SignalEndSession}:     {StateIdle, (*Machine).closeSession},
	{StateContentOpen, SignalEndSession}:   {StateIdle, (*Machine).closeSession},
}

type visitBuilder struct {
	label     string
	exhibitID *int64
	start     float64
	actions   []models.Action
}

func (b *visitBuilder) record(label string, timestamp float64) {
	b.actions = append(b.actions, models.Action{
		Type:      label,
		Timestamp: timestamp,
		ItemID:    ItemID(label),
	})
}

func (b *visitBuilder) finish(end float64) models.Visit {
	return models.Visit{
		ExhibitLabel: b.label,
		ExhibitID:    b.exhibitID,
		StartTime:    b.start,
		EndTime:      &end,
		Actions:      b.actions,
	}
}

type sessionBuilder struct {
	start  float64
	visits []models.Visit
}

func (b *sessionBuilder) finish(end float64) models.Session {
	return models.Session{
		StartTime: b.start,
		EndTime:   &end,
		Visits:    b.visits,
	}
}

// Machine segments an ordered stream of panel events into sessions, exhibit
// visits and actions. A Machine is not safe for concurrent use; run one per
// stream.
type Machine struct {
	state             State
	session           *sessionBuilder
	visit             *visitBuilder
	sessions          []models.Session
	recordContentOpen bool
}

type Option func(*Machine)

// WithContentOpenActions records the OpenContent_* event that opens a
// visit's content as the first action of that visit.
func WithContentOpenActions() Option {
	return func(m *Machine) {
		m.recordContentOpen = true
	}
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{state: StateIdle, sessions: []models.Session{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Feed consumes a single event.
func (m *Machine) Feed(label string, timestamp float64) {
	t, ok := transitions[transitionKey{m.state, Classify(label)}]
	if !ok {
		return
	}
	t.effect(m, label, timestamp)
	m.state = t.next
}

// Process feeds events in slice order.
func (m *Machine) Process(events []models.InteractionEvent) {
	for _, ev := range events {
		m.Feed(ev.Action, ev.Timestamp)
	}
}

// CloseSession ends the current session at timestamp as if the end marker
// had been seen. A visit still open is dropped, not flushed.
func (m *Machine) CloseSession(timestamp float64) {
	m.closeSession("", timestamp)
	m.state = StateIdle
}

func (m *Machine) State() State {
	return m.state
}

// Sessions returns the sessions closed so far, in closing order.
func (m *Machine) Sessions() []models.Session {
	return m.sessions[:len(m.sessions):len(m.sessions)]
}

func (m *Machine) openSession(_ string, timestamp float64) {
	m.session = &sessionBuilder{start: timestamp, visits: []models.Visit{}}
}

// An entry label may already carry the exhibit id; a later content label
// that carries one takes precedence.
func (m *Machine) openVisit(label string, timestamp float64) {
	m.visit = &visitBuilder{
		label:     label,
		exhibitID: ExhibitID(label),
		start:     timestamp,
		actions:   []models.Action{},
	}
}

func (m *Machine) switchVisit(label string, timestamp float64) {
	m.closeVisit(label, timestamp)
	m.openVisit(label, timestamp)
}

func (m *Machine) openContent(label string, timestamp float64) {
	if id := ExhibitID(label); id != nil {
		m.visit.exhibitID = id
	}
	if m.recordContentOpen {
		m.visit.record(label, timestamp)
	}
}

func (m *Machine) recordAction(label string, timestamp float64) {
	m.visit.record(label, timestamp)
}

func (m *Machine) closeVisit(_ string, timestamp float64) {
	m.session.visits = append(m.session.visits, m.visit.finish(timestamp))
	m.visit = nil
}

func (m *Machine) closeSession(_ string, timestamp float64) {
	if m.session != nil {
		m.sessions = append(m.sessions, m.session.finish(timestamp))
		m.session = nil
	}
	m.visit = nil
}

// Segment runs a fresh Machine over events and returns the closed sessions.
// Whatever is still open when events run out is abandoned.
func Segment(events []models.InteractionEvent, opts ...Option) []models.Session {
	m := NewMachine(opts...)
	m.Process(events)
	return m.Sessions()
}
