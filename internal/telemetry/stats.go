package telemetry

type Stats struct {
	Turns            int               `json:"turns"`
	EventCounts      map[EventType]int `json:"event_counts"`
	DamageDealt      int               `json:"damage_dealt"`
	DamageTaken      int               `json:"damage_taken"`
	Kills            int               `json:"kills"`
	KillsPerTurn     float64           `json:"kills_per_turn"`
	GoldFromKills    int               `json:"gold_from_kills"`
	GoldSpent        int               `json:"gold_spent"`
	KillsByArchetype map[string]int    `json:"kills_by_archetype"`
	SpawnsByName     map[string]int    `json:"spawns_by_name"`
	Escalations      int               `json:"escalations"`
}

// CalculateStats summarises a run of events for balance tuning.
func CalculateStats(events []Event) Stats {
	stats := Stats{
		EventCounts:      make(map[EventType]int),
		KillsByArchetype: make(map[string]int),
		SpawnsByName:     make(map[string]int),
	}

	first, last := -1, -1
	for _, event := range events {
		stats.EventCounts[event.Type]++
		if first < 0 || event.Turn < first {
			first = event.Turn
		}
		if event.Turn > last {
			last = event.Turn
		}

		switch event.Type {
		case EventShot:
			stats.DamageDealt += event.Amount
		case EventBite:
			stats.DamageTaken += event.Amount
		case EventKill:
			stats.Kills++
			stats.GoldFromKills += event.Amount
			stats.KillsByArchetype[event.Target]++
		case EventSpawn:
			stats.SpawnsByName[event.Actor]++
		case EventPurchase, EventUpgrade:
			stats.GoldSpent += event.Amount
		case EventEscalation:
			stats.Escalations++
		}
	}

	if first >= 0 {
		stats.Turns = last - first + 1
		stats.KillsPerTurn = float64(stats.Kills) / float64(stats.Turns)
	}

	return stats
}
