// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package schedule decides which template time slots are due and fires
// them. A pass evaluates every active template's slots against the current
// instant, persists lastExecutionTime and triggers the content pipeline.
//
// Slots match on the exact local minute, so the pass cadence must be one
// minute or finer for every slot to be seen. With the default five-minute
// cadence only slots on a five-minute boundary ever fire; other slots are
// silently missed. Firing is at most once per minute per template, never
// exactly once.
package schedule

import (
	"fmt"
	"time"

	"autogensocial/internal/models"
)

// Decision records the three checks behind one slot evaluation.
type Decision struct {
	Local           time.Time
	ScheduledDay    bool
	ScheduledTime   bool
	AlreadyExecuted bool
}

// Due reports whether the slot should fire.
func (d Decision) Due() bool {
	return d.ScheduledDay && d.ScheduledTime && !d.AlreadyExecuted
}

// Evaluate converts now into the slot's timezone and checks the weekday,
// the hour and minute, and whether the template already fired in the same
// local minute. It fails only when the timezone cannot be loaded.
func Evaluate(tmpl *models.Template, slot models.TimeSlot, now time.Time) (Decision, error) {
	loc, err := time.LoadLocation(slot.Timezone)
	if err != nil {
		return Decision{}, fmt.Errorf("slot timezone %q: %w", slot.Timezone, err)
	}

	local := now.In(loc)
	d := Decision{
		Local:         local,
		ScheduledDay:  tmpl.Schedule.HasDay(local.Weekday()),
		ScheduledTime: local.Hour() == slot.Hour && local.Minute() == slot.Minute,
	}
	if last := tmpl.Metadata.LastExecutionTime; last != nil {
		d.AlreadyExecuted = sameMinute(last.In(loc), local)
	}
	return d, nil
}

// IsDue is Evaluate reduced to a boolean. An unloadable timezone is never due.
func IsDue(tmpl *models.Template, slot models.TimeSlot, now time.Time) bool {
	d, err := Evaluate(tmpl, slot, now)
	return err == nil && d.Due()
}

// sameMinute compares calendar minutes of two times in the same location.
func sameMinute(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd && a.Hour() == b.Hour() && a.Minute() == b.Minute()
}
