package character

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// Dump renders a human-readable debugging report of the full sheet. The
// layout is informational and may change.
func (c *Character) Dump() string {
	s := c.Snapshot()
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s (%s) ===\n", s.Name, s.ID)
	if s.PlayerName != "" {
		fmt.Fprintf(&b, "Player: %s\n", s.PlayerName)
	}
	fmt.Fprintf(&b, "Level %d  XP %d  Proficiency %+d\n", s.Level, s.Experience, s.ProficiencyBonus)
	fmt.Fprintf(&b, "Race: %s  Subrace: %s  Class: %s  Subclass: %s  Background: %s\n",
		orNone(s.Race), orNone(s.Subrace), orNone(s.Class), orNone(s.Subclass), orNone(s.Background))
	if s.Alignment != "" {
		fmt.Fprintf(&b, "Alignment: %s\n", s.Alignment)
	}

	section(&b, "Abilities")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ABILITY\tBASE\tSCORE\tMOD\tSAVE")
	for _, a := range s.Abilities {
		prof := ""
		if a.SaveProf {
			prof = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%+d\t%+d%s\n", a.Ability.Short(), a.Base, a.Effective, a.Modifier, a.Save, prof)
	}
	tw.Flush()

	section(&b, "Skills")
	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, sk := range s.Skills {
		prof := ""
		if sk.Proficient {
			prof = "*"
		}
		fmt.Fprintf(tw, "%s%s\t(%s)\t%+d\n", sk.Skill, prof, sk.Ability.Short(), sk.Modifier)
	}
	tw.Flush()
	fmt.Fprintf(&b, "Passive Perception: %d\n", s.PassivePerception)

	section(&b, "Defense")
	fmt.Fprintf(&b, "AC %d\n", s.ArmorClass)
	writeEntries(&b, s.ArmorClassBreakdown)
	hp := s.HitPoints
	fmt.Fprintf(&b, "HP %d/%d  Temp %d  Hit dice %v\n", hp.Current, hp.Maximum, hp.Temporary, hp.HitDiceRolls)
	fmt.Fprintf(&b, "Conscious %t  Stable %t  Dead %t  Death saves %d/%d\n",
		hp.Conscious, hp.Stable, hp.Dead, hp.DeathSaveSuccesses, hp.DeathSaveFailures)

	section(&b, "Combat")
	fmt.Fprintf(&b, "Initiative %+d  Speed %d ft\n", s.Initiative, s.Speed)
	fmt.Fprintf(&b, "Armor: %s  Shield: %s  Main hand: %s  Off hand: %s\n",
		orNone(s.Equipped.Armor), orNone(s.Equipped.Shield), orNone(s.Equipped.MainHand), orNone(s.Equipped.OffHand))
	for _, a := range s.Attacks {
		fmt.Fprintf(&b, "  %s [%s] to hit %+d, damage %s\n", a.WeaponName, a.Hand, a.AttackBonus, a.Damage.Label)
	}

	section(&b, "Turn")
	t := s.Turn
	fmt.Fprintf(&b, "Action spent %t  Bonus action spent %t  Reaction spent %t  Movement %d/%d\n",
		t.ActionSpent, t.BonusActionSpent, t.ReactionSpent, t.Movement, t.MaxMovement)
	for _, a := range s.Actions {
		fmt.Fprintf(&b, "  %s (%s)\n", a.Name, a.Timing)
	}
	for _, r := range s.Reactions {
		fmt.Fprintf(&b, "  %s (reaction: %s)\n", r.Name, r.Trigger)
	}

	section(&b, "Conditions")
	if len(s.Conditions) == 0 {
		b.WriteString("  none\n")
	}
	for _, cond := range s.Conditions {
		rounds := fmt.Sprintf("%d rounds", cond.Duration)
		if cond.IsPermanent() {
			rounds = "permanent"
		}
		fmt.Fprintf(&b, "  %s (%s)\n", cond.Name, rounds)
	}

	section(&b, "Features")
	for _, f := range s.Features {
		state := ""
		if !f.Active {
			state = " [inactive]"
		}
		uses := ""
		if f.Uses != nil {
			uses = fmt.Sprintf(" %d/%d per %s", f.Uses.Current, f.Uses.Maximum, f.Uses.RechargeType)
		}
		fmt.Fprintf(&b, "  %s (%s)%s%s\n", f.Name, f.Type, uses, state)
	}
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n--- %s ---\n", title)
}

func writeEntries(b *strings.Builder, entries []modifier.Entry) {
	for _, e := range entries {
		fmt.Fprintf(b, "  %-28s %+d\n", e.Label, e.Value)
	}
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
