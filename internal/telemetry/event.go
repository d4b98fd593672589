package telemetry

type EventType string

const (
	EventShot       EventType = "shot"
	EventKill       EventType = "kill"
	EventKnockback  EventType = "knockback"
	EventBite       EventType = "bite"
	EventSlain      EventType = "slain"
	EventAdvance    EventType = "advance"
	EventBreach     EventType = "breach"
	EventSpawn      EventType = "spawn"
	EventSpawnFail  EventType = "spawn_failed"
	EventEscalation EventType = "escalation"
	EventPurchase   EventType = "purchase"
	EventUpgrade    EventType = "upgrade"
	EventVictory    EventType = "victory"
	EventDefeat     EventType = "defeat"
)

// Event is one thing that happened on the field. Actor and Target are
// display names; Row/Col locate the actor (or the target for kills and
// knockbacks) after the action; Amount is damage, gold, or reward
// depending on Type.
type Event struct {
	ID     int       `json:"id"`
	Turn   int       `json:"turn"`
	Type   EventType `json:"type"`
	Actor  string    `json:"actor,omitempty"`
	Target string    `json:"target,omitempty"`
	Row    int       `json:"row"`
	Col    int       `json:"col"`
	Amount int       `json:"amount,omitempty"`
}
