package model_test

import (
	"errors"
	"testing"

	"github.com/okian/swimconv/internal/domain/conversion"
	model "github.com/okian/swimconv/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestJob(t *testing.T) {
	convey.Convey("Given a finished job", t, func() {
		job := &model.Job{
			ID:      "job-1",
			Status:  model.JobDone,
			Entries: []conversion.Entry{{Time: "23.45", Event: "50_free"}, {Time: "x", Event: "50_free"}},
			Items: []conversion.BatchItem{
				{Result: conversion.Result{ConvertedTime: "20.27"}},
				{Err: errors.New("bad time")},
				{Result: conversion.Result{ConvertedTime: "1:00.00"}},
			},
		}

		convey.Convey("Then counts split successes and failures", func() {
			ok, failed := job.Counts()
			convey.So(ok, convey.ShouldEqual, 2)
			convey.So(failed, convey.ShouldEqual, 1)
		})

		convey.Convey("When cloned", func() {
			c := job.Clone()
			c.Items[0].Result.ConvertedTime = "changed"
			c.Entries[0].Time = "changed"

			convey.Convey("Then the original is untouched", func() {
				convey.So(job.Items[0].Result.ConvertedTime, convey.ShouldEqual, "20.27")
				convey.So(job.Entries[0].Time, convey.ShouldEqual, "23.45")
				convey.So(c.ID, convey.ShouldEqual, job.ID)
			})
		})
	})

	convey.Convey("Given job statuses", t, func() {
		convey.So(model.JobQueued.Terminal(), convey.ShouldBeFalse)
		convey.So(model.JobRunning.Terminal(), convey.ShouldBeFalse)
		convey.So(model.JobDone.Terminal(), convey.ShouldBeTrue)
		convey.So(model.JobFailed.Terminal(), convey.ShouldBeTrue)
	})
}
