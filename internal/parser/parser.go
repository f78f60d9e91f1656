// Package parser extracts game signals from the embeds the game replies with.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "3 <:salmon:123> Salmon"
	catchPattern = regexp.MustCompile(`(\d+)\s+<:[^>]+>\s+([\w\s]+)`)
	// "+173 XP" or "+37,129 XP"
	xpPattern = regexp.MustCompile(`\+([\d,]+)\s+XP`)
	// "Balance: **$3,548**"
	balancePattern = regexp.MustCompile(`Balance: \*\*\$([\d,]+)\*\*`)
	// "Level 21"
	levelPattern = regexp.MustCompile(`Level (\d+)`)
	// "Current Biome: <:ocean:123> **Ocean**"
	biomePattern = regexp.MustCompile(`Current [Bb]iome: .*\*\*([\w\s]+)\*\*`)
	// "Rod: <:rod:123> **Steel Rod**"
	rodPattern = regexp.MustCompile(`Rod: .*?\*\*([\w\s]+)\*\*`)
	// "You must wait **2.5**s"
	cooldownWaitPattern = regexp.MustCompile(`You must wait \*\*([\d.]+)\*\*s`)
	// "Current cooldown: **3.5** seconds"
	cooldownTotalPattern = regexp.MustCompile(`Current cooldown: \*\*([\d.]+)\*\* seconds`)
)

// CatchEvent is one parsed catch: fish counts by name plus the XP gained.
type CatchEvent struct {
	Fish []FishCount
	XP   uint64
}

// FishCount is a fish name and how many were caught.
type FishCount struct {
	Name  string
	Count uint64
}

// PlayerStats holds the profile fields the bot tracks. Nil-able fields are
// represented by ok flags since embeds rarely carry all of them.
type PlayerStats struct {
	Balance    uint64
	HasBalance bool
	Level      int
	HasLevel   bool
	Biome      string
	RodName    string
}

// CooldownEvent is a parsed cooldown violation.
type CooldownEvent struct {
	WaitTime      float64
	TotalCooldown float64
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(strings.ReplaceAll(s, ",", ""), 10, 64)
	return v
}

// ParseCatch extracts a catch event from an embed description. Returns
// false when the description carries neither fish nor XP.
func ParseCatch(description string) (CatchEvent, bool) {
	var ev CatchEvent
	for _, line := range strings.Split(description, "\n") {
		if m := catchPattern.FindStringSubmatch(line); m != nil {
			ev.Fish = append(ev.Fish, FishCount{
				Name:  strings.TrimSpace(m[2]),
				Count: parseUint(m[1]),
			})
		}
		if m := xpPattern.FindStringSubmatch(line); m != nil {
			ev.XP = parseUint(m[1])
		}
	}
	return ev, len(ev.Fish) > 0 || ev.XP > 0
}

// ParseCooldown extracts a cooldown violation from an embed description.
func ParseCooldown(description string) (CooldownEvent, bool) {
	var ev CooldownEvent
	if m := cooldownWaitPattern.FindStringSubmatch(description); m != nil {
		ev.WaitTime, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := cooldownTotalPattern.FindStringSubmatch(description); m != nil {
		ev.TotalCooldown, _ = strconv.ParseFloat(m[1], 64)
	}
	return ev, ev.WaitTime > 0 || ev.TotalCooldown > 0
}

// ParseProfile extracts player stats from a profile embed description.
func ParseProfile(description string) PlayerStats {
	var stats PlayerStats
	if m := balancePattern.FindStringSubmatch(description); m != nil {
		stats.Balance = parseUint(m[1])
		stats.HasBalance = true
	}
	if m := levelPattern.FindStringSubmatch(description); m != nil {
		lvl, _ := strconv.Atoi(m[1])
		stats.Level = lvl
		stats.HasLevel = true
	}
	if m := biomePattern.FindStringSubmatch(description); m != nil {
		stats.Biome = strings.TrimSpace(m[1])
	}
	if m := rodPattern.FindStringSubmatch(description); m != nil {
		stats.RodName = strings.TrimSpace(m[1])
	}
	return stats
}

// IsInventoryFull reports whether the description signals a full inventory.
func IsInventoryFull(description string) bool {
	return strings.Contains(strings.ToLower(description), "inventory is full")
}

// IsCaptcha reports whether a title or description signals a captcha check.
func IsCaptcha(title, description string) bool {
	t := strings.ToLower(title + " " + description)
	return strings.Contains(t, "captcha") || strings.Contains(t, "anti-bot")
}
