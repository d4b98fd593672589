package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arashnrim/desperate-defenders/internal/config"
	"github.com/arashnrim/desperate-defenders/internal/game"
	"github.com/arashnrim/desperate-defenders/internal/roster"
	"github.com/arashnrim/desperate-defenders/internal/telemetry"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	header      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	playerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	enemyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	zoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func laneName(row int) string {
	if row >= 0 && row < 26 {
		return string(rune('A' + row))
	}
	return strconv.Itoa(row)
}

// parseLane accepts a lane letter (A, b) or a zero-based index.
func parseLane(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("-row is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A'), nil
		}
	}
	return 0, fmt.Errorf("invalid lane %q", s)
}

func renderField(snap game.GridSnapshot) string {
	headers := make([]string, 0, snap.Columns+1)
	headers = append(headers, "")
	for c := 0; c < snap.Columns; c++ {
		headers = append(headers, strconv.Itoa(c))
	}

	rows := make([][]string, 0, snap.Rows)
	for r := 0; r < snap.Rows; r++ {
		row := []string{laneName(r)}
		for c := 0; c < snap.Columns; c++ {
			v := snap.At(r, c)
			if v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%s\n%d/%d", v.ID, v.Health, v.MaxHealth))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Width(7).Align(lipgloss.Center)
			if row == table.HeaderRow || col == 0 {
				return base.Inherit(header)
			}
			if v := snap.At(row, col-1); v != nil {
				if v.Side == roster.SideEnemy {
					return base.Inherit(enemyStyle)
				}
				return base.Inherit(playerStyle)
			}
			if col-1 >= snap.PlayerColumns {
				return base.Inherit(zoneStyle)
			}
			return base
		})

	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), statusLine(snap))
}

func statusLine(snap game.GridSnapshot) string {
	e := snap.Economy
	bar := strings.Repeat("-", min(e.ThreatLevel, config.MaxThreatLevel))
	line := fmt.Sprintf("Turn %d  Threat [%-*s]  Danger %d  Gold %d  Killed %d/%d",
		e.Turn, config.MaxThreatLevel, bar, e.DangerLevel, e.Gold, e.Killed, e.Target)
	switch snap.Outcome {
	case game.OutcomeVictory:
		line += "  VICTORY"
	case game.OutcomeDefeat:
		line += "  DEFEAT (" + snap.Catalyst + ")"
	}
	return statusStyle.Render(line)
}

func renderShop(units []roster.Archetype) string {
	rows := make([][]string, 0, len(units))
	for _, a := range units {
		upgrade := "-"
		if a.Upgrade != nil {
			upgrade = fmt.Sprintf("%d (+%d each)", a.Upgrade.BaseCost, a.Upgrade.CostStep)
		}
		rows = append(rows, []string{
			string(a.ID),
			a.Name,
			strconv.Itoa(a.Cost),
			strconv.Itoa(a.Health),
			fmt.Sprintf("%d-%d", a.MinDamage, a.MaxDamage),
			upgrade,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers("Unit", "Name", "Cost", "HP", "Damage", "Upgrade").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// narrate turns an event into the line the player reads. Dropped spawns
// are not worth a line.
func narrate(ev telemetry.Event) string {
	lane := laneName(ev.Row)
	switch ev.Type {
	case telemetry.EventShot:
		return fmt.Sprintf("%s in lane %s shoots %s for %d damage!", ev.Actor, lane, ev.Target, ev.Amount)
	case telemetry.EventKill:
		return fmt.Sprintf("%s dies! +%d gold", ev.Target, ev.Amount)
	case telemetry.EventKnockback:
		return fmt.Sprintf("%s in lane %s was blasted back!", ev.Target, lane)
	case telemetry.EventBite:
		return fmt.Sprintf("%s in lane %s bites %s for %d damage!", ev.Actor, lane, ev.Target, ev.Amount)
	case telemetry.EventSlain:
		return fmt.Sprintf("%s in lane %s was slain!", ev.Target, lane)
	case telemetry.EventAdvance:
		return fmt.Sprintf("%s in lane %s advances!", ev.Actor, lane)
	case telemetry.EventBreach:
		return fmt.Sprintf("%s in lane %s breaks through!", ev.Actor, lane)
	case telemetry.EventSpawn:
		return fmt.Sprintf("A %s appears in lane %s!", ev.Actor, lane)
	case telemetry.EventEscalation:
		return fmt.Sprintf("The evil grows! Danger level %d.", ev.Amount)
	case telemetry.EventPurchase:
		return fmt.Sprintf("%s placed in lane %s for %d gold.", ev.Actor, lane, ev.Amount)
	case telemetry.EventUpgrade:
		return fmt.Sprintf("%s in lane %s upgraded for %d gold.", ev.Actor, lane, ev.Amount)
	case telemetry.EventVictory:
		return "You have protected the city! You win!"
	case telemetry.EventDefeat:
		return fmt.Sprintf("A %s has reached the city! All is lost!", ev.Actor)
	}
	return ""
}
