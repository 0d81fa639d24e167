package tasks

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// cronSchedule defers a one-off task to the next occurrence of a cron
// expression, so ad-hoc enqueues can align with the periodic schedule.
type cronSchedule struct {
	expr string
}

func (s cronSchedule) String() string {
	return fmt.Sprintf("cron=%s", s.expr)
}

func (s cronSchedule) Type() asynq.OptionType {
	return asynq.ProcessAtOpt
}

func (s cronSchedule) Value() interface{} {
	return s.expr
}

func (s cronSchedule) Apply(opts *asynq.TaskInfo) {
	schedule, err := cron.ParseStandard(s.expr)
	if err != nil {
		// Unparseable expression: fall back to an hour from now
		opts.NextProcessAt = time.Now().Add(1 * time.Hour)
		return
	}
	opts.NextProcessAt = schedule.Next(time.Now())
}

// CronSchedule returns an option to run a task at the next cron occurrence
func CronSchedule(expr string) asynq.Option {
	return cronSchedule{expr: expr}
}
