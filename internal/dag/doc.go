// Package dag defines small scheduled workflows: an ordered list of tasks run
// on a cron schedule. Scheduling itself is delegated to robfig/cron; this
// package only validates definitions, runs tasks in order and skips ticks
// that fall before a workflow's start date.
package dag
