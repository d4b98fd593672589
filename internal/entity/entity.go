package entity

import "github.com/arashnrim/desperate-defenders/internal/roster"

// Entity is one placed or spawned unit. Stats are copied from the archetype
// when the entity is created, so later archetype changes never reach it.
type Entity struct {
	Archetype    roster.ID   `json:"id"`
	Name         string      `json:"name"`
	Side         roster.Side `json:"type"`
	Health       int         `json:"current_health"`
	MaxHealth    int         `json:"health"`
	MinDamage    int         `json:"min_damage"`
	MaxDamage    int         `json:"max_damage"`
	Moves        int         `json:"moves"`
	Reward       int         `json:"reward"`
	UpgradeCount int         `json:"upgrade_count"`
}

// New snapshots an archetype at full health.
func New(a roster.Archetype) *Entity {
	e := &Entity{
		Archetype: a.ID,
		Name:      a.Name,
		Side:      a.Side,
		Health:    a.Health,
		MaxHealth: a.Health,
		MinDamage: a.MinDamage,
		MaxDamage: a.MaxDamage,
	}
	if a.IsEnemy() {
		e.Moves = a.Moves
		e.Reward = a.Reward
	}
	return e
}

func (e *Entity) IsEnemy() bool  { return e.Side == roster.SideEnemy }
func (e *Entity) IsPlayer() bool { return e.Side == roster.SidePlayer }

// Dead reports whether the entity should leave the field.
func (e *Entity) Dead() bool { return e.Health <= 0 }

// Hit subtracts damage and reports whether the hit was lethal.
func (e *Entity) Hit(damage int) bool {
	e.Health -= damage
	return e.Dead()
}

// Empower is the escalation buff for enemies already on the field.
func (e *Entity) Empower() {
	e.MinDamage++
	e.MaxDamage++
	e.Reward++
}

// ApplyUpgrade raises damage and both health values by the rule's bonuses.
func (e *Entity) ApplyUpgrade(rule roster.UpgradeRule) {
	e.MinDamage += rule.DamageBonus
	e.MaxDamage += rule.DamageBonus
	e.Health += rule.HealthBonus
	e.MaxHealth += rule.HealthBonus
	e.UpgradeCount++
}

func (e *Entity) Clone() *Entity {
	cp := *e
	return &cp
}
