package sim

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"skyfleet/server/internal/config"
	loggingsimulation "skyfleet/server/logging/simulation"
)

// tickBudgetCatchupMaxTicks bounds how many ticks' worth of dt a single
// late tick is allowed to absorb before the scheduler treats it as a
// resync rather than a normal late wakeup.
const tickBudgetCatchupMaxTicks = 2

// A sustained overrun this bad, or this many consecutive ticks over
// budget, trips the alarm.
const (
	tickBudgetAlarmMinRatio  = 2.0
	tickBudgetAlarmMinStreak = 3
)

// RunLoop drives m's fixed-rate tick loop at config.TickRate until ctx is
// canceled. Grounded on the teacher's Hub.RunSimulation: a time.Ticker,
// dt clamped to a small catch-up budget rather than let behind-schedule
// wakeups explode dt, tick-duration telemetry, and a CompareAndSwap-gated
// alarm once overruns become sustained rather than a one-off blip.
func (m *Map) RunLoop(ctx context.Context) {
	loggingsimulation.MapStarted(ctx, m.pub, m.ID)
	defer loggingsimulation.MapStopped(ctx, m.pub, m.ID)

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	tickBudget := config.TickInterval
	budgetSeconds := tickBudget.Seconds()
	maxDtSeconds := budgetSeconds * tickBudgetCatchupMaxTicks

	last := time.Now()
	var overrunStreak uint64
	var alarmTriggered atomic.Bool

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tickStart := time.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDtSeconds {
				dt = maxDtSeconds
			}
			last = now

			m.Tick(ctx, now, time.Duration(dt*float64(time.Second)))

			duration := time.Since(tickStart)
			if m.metrics != nil {
				m.metrics.Add("sim_ticks_total", 1)
				m.metrics.Store("sim_tick_duration_ns", uint64(duration))
			}
			if m.collector != nil {
				m.collector.ObserveTickDuration(duration.Seconds())
				m.collector.SetActiveEntities("players", float64(len(m.store.Players())))
				m.collector.SetActiveEntities("npcs", float64(len(m.store.NPCs())))
			}
			if tickBudget > 0 && duration > tickBudget {
				overrunStreak++
				ratio := float64(duration) / float64(tickBudget)
				log.Printf("sim: map %s tick budget overrun duration=%s budget=%s ratio=%.2f streak=%d", m.ID, duration, tickBudget, ratio, overrunStreak)
				loggingsimulation.TickOverrun(ctx, m.pub, m.tick, m.ID, tickBudget, duration)
				if m.metrics != nil {
					m.metrics.Add("sim_tick_overruns_total", 1)
				}
				if (ratio >= tickBudgetAlarmMinRatio || overrunStreak >= tickBudgetAlarmMinStreak) && alarmTriggered.CompareAndSwap(false, true) {
					loggingsimulation.TickAlarm(ctx, m.pub, m.tick, m.ID, int(overrunStreak), ratio)
				}
			} else {
				overrunStreak = 0
				alarmTriggered.Store(false)
			}
		}
	}
}
