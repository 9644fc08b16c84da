// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogensocial/internal/models"
)

// memTemplates is an in-memory TemplateRepository.
type memTemplates struct {
	mu        sync.Mutex
	templates []models.Template
	markErr   error
	marked    int
	listErr   error
}

func (m *memTemplates) ListActive(context.Context) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Template, 0, len(m.templates))
	for _, t := range m.templates {
		if t.Metadata.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTemplates) MarkExecuted(_ context.Context, id, brandID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	for i := range m.templates {
		if m.templates[i].ID == id && m.templates[i].BrandID == brandID {
			stamp := at
			m.templates[i].Metadata.LastExecutionTime = &stamp
			m.marked++
			return nil
		}
	}
	return models.ErrNotFound
}

type triggerCall struct{ brandID, templateID string }

type fakeTrigger struct {
	mu    sync.Mutex
	calls []triggerCall
	err   error
}

func (f *fakeTrigger) Trigger(_ context.Context, brandID, templateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, triggerCall{brandID, templateID})
	return f.err
}

// memGuard mimics SET NX on a map.
type memGuard struct {
	claimed  map[string]bool
	released int
}

func (g *memGuard) Claim(_ context.Context, id string, slot int, at time.Time) (bool, error) {
	key := id + at.UTC().Format("200601021504") + string(rune('0'+slot))
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, id string, slot int, at time.Time) {
	delete(g.claimed, id+at.UTC().Format("200601021504")+string(rune('0'+slot)))
	g.released++
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var monday0900 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestRunPass_FiresDueSlotAndStampsTemplate(t *testing.T) {
	repo := &memTemplates{templates: []models.Template{*mondayNine("UTC")}}
	trig := &fakeTrigger{}
	s := New(repo, trig, WithClock(fixedClock(monday0900)))

	res, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Templates: 1, Evaluated: 1, Fired: 1}, res)
	require.Len(t, trig.calls, 1)
	assert.Equal(t, triggerCall{"b1", "t1"}, trig.calls[0])

	last := repo.templates[0].Metadata.LastExecutionTime
	require.NotNil(t, last)
	assert.True(t, last.Equal(monday0900))
	assert.Equal(t, 1, repo.marked, "only the execution stamp is written")
}

func TestRunPass_IdempotentWithinMinute(t *testing.T) {
	repo := &memTemplates{templates: []models.Template{*mondayNine("UTC")}}
	trig := &fakeTrigger{}

	first := New(repo, trig, WithClock(fixedClock(monday0900)))
	_, err := first.RunPass(context.Background())
	require.NoError(t, err)

	second := New(repo, trig, WithClock(fixedClock(monday0900.Add(30*time.Second))))
	res, err := second.RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Fired)
	assert.Len(t, trig.calls, 1, "pipeline fires at most once per minute")
}

func TestRunPass_SkipsInactiveAndNotDue(t *testing.T) {
	inactive := mondayNine("UTC")
	inactive.ID = "inactive"
	inactive.Metadata.IsActive = false
	later := mondayNine("UTC")
	later.ID = "later"
	later.Schedule.TimeSlots[0].Hour = 18

	repo := &memTemplates{templates: []models.Template{*inactive, *later}}
	trig := &fakeTrigger{}
	res, err := New(repo, trig, WithClock(fixedClock(monday0900))).RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Templates)
	assert.Equal(t, 0, res.Fired)
	assert.Empty(t, trig.calls)
	assert.Equal(t, 0, repo.marked)
}

func TestRunPass_PersistFailureSkipsTrigger(t *testing.T) {
	repo := &memTemplates{
		templates: []models.Template{*mondayNine("UTC")},
		markErr:   errors.New("db down"),
	}
	trig := &fakeTrigger{}
	guard := &memGuard{claimed: map[string]bool{}}
	s := New(repo, trig, WithClock(fixedClock(monday0900)), WithGuard(guard))

	res, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, trig.calls)
	assert.Equal(t, 1, guard.released, "claim is released for a later retry")
	assert.Nil(t, repo.templates[0].Metadata.LastExecutionTime)
}

func TestRunPass_TriggerFailureNotRetried(t *testing.T) {
	repo := &memTemplates{templates: []models.Template{*mondayNine("UTC")}}
	trig := &fakeTrigger{err: errors.New("502")}
	s := New(repo, trig, WithClock(fixedClock(monday0900)))

	res, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, trig.calls, 1)
	assert.NotNil(t, repo.templates[0].Metadata.LastExecutionTime, "firing stays recorded")

	res, err = s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Len(t, trig.calls, 1, "no retry within the same minute")
	assert.Equal(t, 0, res.Failed)
}

func TestRunPass_GuardBlocksOverlappingPass(t *testing.T) {
	guard := &memGuard{claimed: map[string]bool{}}
	trig := &fakeTrigger{}

	// Two passes that both listed the template before either stamped it.
	repoA := &memTemplates{templates: []models.Template{*mondayNine("UTC")}}
	repoB := &memTemplates{templates: []models.Template{*mondayNine("UTC")}}

	_, err := New(repoA, trig, WithClock(fixedClock(monday0900)), WithGuard(guard)).RunPass(context.Background())
	require.NoError(t, err)
	_, err = New(repoB, trig, WithClock(fixedClock(monday0900)), WithGuard(guard)).RunPass(context.Background())
	require.NoError(t, err)

	assert.Len(t, trig.calls, 1)
	assert.Equal(t, 0, repoB.marked)
}

func TestRunPass_SecondSlotSameMinute(t *testing.T) {
	tmpl := mondayNine("UTC")
	tmpl.Schedule.TimeSlots = append(tmpl.Schedule.TimeSlots, models.TimeSlot{Hour: 11, Minute: 0, Timezone: "Europe/Bucharest"})
	repo := &memTemplates{templates: []models.Template{*tmpl}}
	trig := &fakeTrigger{}

	// 09:00 UTC is 11:00 in Bucharest: both slots match, the template fires once.
	res, err := New(repo, trig, WithClock(fixedClock(monday0900))).RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Evaluated)
	assert.Equal(t, 1, res.Fired)
	assert.Len(t, trig.calls, 1)
}

func TestRunPass_ListError(t *testing.T) {
	repo := &memTemplates{listErr: errors.New("timeout")}
	_, err := New(repo, &fakeTrigger{}).RunPass(context.Background())
	assert.Error(t, err)
}
