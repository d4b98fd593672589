package game

// Economy holds the counters that drive pacing and the win condition.
type Economy struct {
	Turn        int `json:"turn"`
	Gold        int `json:"gold"`
	ThreatLevel int `json:"threat_level"`
	DangerLevel int `json:"danger_level"`
	Killed      int `json:"killed"`
	Target      int `json:"target"`
}

func (e *Economy) CanAfford(cost int) bool { return e.Gold >= cost }

// Spend deducts cost; callers check CanAfford first so gold never goes negative.
func (e *Economy) Spend(cost int) {
	e.Gold -= cost
}

// CreditKill books an enemy death: its reward is paid in gold and also
// feeds the threat meter.
func (e *Economy) CreditKill(reward int) {
	e.Gold += reward
	e.Killed++
	e.ThreatLevel += reward
}

func (e *Economy) Won() bool { return e.Killed >= e.Target }

// EscalationDue reports whether turn sits on an escalation boundary.
func (e *Economy) EscalationDue(interval int) bool {
	return e.Turn > 0 && interval > 0 && e.Turn%interval == 0
}

func (e *Economy) valid() bool {
	return e.Turn >= 0 && e.Gold >= 0 && e.ThreatLevel >= 0 &&
		e.DangerLevel >= 1 && e.Killed >= 0 && e.Target >= 1
}
