package conversion_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/factors"
	"github.com/okian/swimconv/internal/domain/swimtime"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine_Convert(t *testing.T) {
	Convey("Given a default engine", t, func() {
		engine := conversion.NewEngine()

		Convey("When converting a 50 free from LCM to SCY", func() {
			res, err := engine.Convert("23.456", "50_free", "LCM", "SCY", false)

			Convey("Then the product is rounded half away from zero", func() {
				So(err, ShouldBeNil)
				So(res.Factor, ShouldEqual, 0.8644)
				So(res.FactorSource, ShouldEqual, factors.SourceExact)
				So(res.ConvertedSeconds, ShouldEqual, 20.28)
				So(res.ConvertedTime, ShouldEqual, "20.28")
				So(res.OriginalTime, ShouldEqual, "23.456")
				So(res.OriginalSeconds, ShouldEqual, 23.456)
				So(res.From, ShouldEqual, course.LCM)
				So(res.To, ShouldEqual, course.SCY)
				So(res.AltitudeAdjusted, ShouldBeFalse)
				So(res.AltitudeFactor, ShouldEqual, 0)
				So(res.LowConfidence(), ShouldBeFalse)
			})
		})

		Convey("When converting a minutes time", func() {
			res, err := engine.Convert("1:00.00", "100_free", "LCM", "SCY", false)
			So(err, ShouldBeNil)
			So(res.ConvertedSeconds, ShouldEqual, 51.86)
			So(res.ConvertedTime, ShouldEqual, "51.86")
		})

		Convey("When the source and target course are equal", func() {
			for _, c := range []string{"SCY", "SCM", "LCM"} {
				for _, tm := range []string{"23.456", "1:05.321", "15:00.00"} {
					parsed, err := swimtime.Parse(tm)
					So(err, ShouldBeNil)

					res, err := engine.Convert(tm, "100_free", c, c, false)
					So(err, ShouldBeNil)
					So(res.Factor, ShouldEqual, 1.0)
					So(res.FactorSource, ShouldEqual, factors.SourceIdentity)
					So(res.ConvertedSeconds, ShouldEqual, parsed)
					So(res.Remapped, ShouldBeFalse)
				}
			}
		})

		Convey("When altitude correction is requested without a course change", func() {
			res, err := engine.Convert("1:00.00", "200_back", "LCM", "LCM", true)

			Convey("Then the backstroke multiplier still applies", func() {
				So(err, ShouldBeNil)
				So(res.Factor, ShouldEqual, 1.0)
				So(res.AltitudeAdjusted, ShouldBeTrue)
				So(res.AltitudeFactor, ShouldEqual, 0.985)
				So(res.ConvertedSeconds, ShouldEqual, 59.1)
				So(res.ConvertedTime, ShouldEqual, "59.10")
			})
		})

		Convey("When altitude correction is requested with a course change", func() {
			res, err := engine.Convert("2:00.00", "200_breast", "LCM", "SCY", true)
			So(err, ShouldBeNil)
			So(res.AltitudeFactor, ShouldEqual, 0.988)
			// 120 * 0.8496 * 0.988 = 100.729...
			So(res.ConvertedSeconds, ShouldEqual, 100.73)
			So(res.ConvertedTime, ShouldEqual, "1:40.73")
		})

		Convey("When the event does not name a stroke and altitude is requested", func() {
			res, err := engine.Convert("1:00.00", "100_medley", "SCY", "SCY", true)
			So(err, ShouldBeNil)
			So(res.AltitudeFactor, ShouldEqual, 0.985)
		})

		Convey("When a long-distance freestyle event changes units", func() {
			res, err := engine.Convert("4:00.00", "400_free", "LCM", "SCY", false)

			Convey("Then the remap is informational only", func() {
				So(err, ShouldBeNil)
				So(res.Event, ShouldEqual, "400_free")
				So(res.MappedEvent, ShouldEqual, "500_free")
				So(res.Remapped, ShouldBeTrue)
				So(res.Factor, ShouldEqual, 0.8655)
				So(res.ConvertedSeconds, ShouldEqual, 207.72)
				So(res.ConvertedTime, ShouldEqual, "3:27.72")
			})
		})

		Convey("When only a course-wide factor exists", func() {
			res, err := engine.Convert("1:00.00", "100_back", "LCM", "SCM", false)
			So(err, ShouldBeNil)
			So(res.Factor, ShouldEqual, 1.0)
			So(res.FactorSource, ShouldEqual, factors.SourceCourseWide)
			So(res.Warning, ShouldBeNil)
		})

		Convey("When the short course pair has no event entry", func() {
			res, err := engine.Convert("1:00.00", "100_back", "SCM", "SCY", false)
			So(err, ShouldBeNil)
			So(res.Factor, ShouldEqual, factors.DefaultSCMToSCY)
			So(res.FactorSource, ShouldEqual, factors.SourceDirectional)
			So(res.ConvertedSeconds, ShouldEqual, 52.27)
		})

		Convey("When no conversion data exists", func() {
			res, err := engine.Convert("16:00.00", "1650_free", "LCM", "SCY", false)

			Convey("Then the result carries an unmapped warning", func() {
				So(err, ShouldBeNil)
				So(res.Factor, ShouldEqual, 1.0)
				So(res.FactorSource, ShouldEqual, factors.SourceUnmapped)
				So(res.LowConfidence(), ShouldBeTrue)
				So(res.Warning.Event, ShouldEqual, "1650_free")
				So(res.Warning.String(), ShouldContainSubstring, "LCM->SCY")
				So(res.ConvertedSeconds, ShouldEqual, 960.0)
			})
		})

		Convey("When a course is unknown", func() {
			_, err := engine.Convert("23.45", "50_free", "LCY", "SCY", false)
			So(errors.Is(err, course.ErrUnknownCourse), ShouldBeTrue)

			_, err = engine.Convert("23.45", "50_free", "LCM", "", false)
			So(errors.Is(err, course.ErrUnknownCourse), ShouldBeTrue)
		})

		Convey("When both the course and the time are invalid", func() {
			_, err := engine.Convert("abc", "50_free", "XXX", "SCY", false)

			Convey("Then the course is reported first", func() {
				So(errors.Is(err, course.ErrUnknownCourse), ShouldBeTrue)
			})
		})

		Convey("When the time is malformed", func() {
			_, err := engine.Convert("1:xx.00", "50_free", "LCM", "SCY", false)
			So(errors.Is(err, swimtime.ErrMalformedTime), ShouldBeTrue)
			var mte *swimtime.MalformedTimeError
			So(errors.As(err, &mte), ShouldBeTrue)
		})

		Convey("When the event is malformed in lenient mode", func() {
			res, err := engine.Convert("30.00", "fifty free", "LCM", "SCY", false)
			So(err, ShouldBeNil)
			So(res.LowConfidence(), ShouldBeTrue)
		})
	})

	Convey("Given a strict engine", t, func() {
		engine := conversion.NewEngine(conversion.WithStrictEvents())

		Convey("When the event is malformed", func() {
			_, err := engine.Convert("30.00", "fifty free", "LCM", "SCY", false)
			So(errors.Is(err, course.ErrMalformedEvent), ShouldBeTrue)

			_, err = engine.Convert("30.00", "all", "LCM", "SCM", false)
			So(errors.Is(err, course.ErrMalformedEvent), ShouldBeTrue)
		})

		Convey("When the event is valid", func() {
			res, err := engine.Convert("30.00", "50_back", "LCM", "SCY", false)
			So(err, ShouldBeNil)
			So(res.ConvertedSeconds, ShouldEqual, 25.68)
		})
	})
}

func TestEngine_Properties(t *testing.T) {
	Convey("Given repeated identical calls", t, func() {
		first, err := conversion.Convert("2:03.17", "200_im", "SCY", "LCM", true)
		So(err, ShouldBeNil)

		Convey("Then every result is identical", func() {
			for i := 0; i < 50; i++ {
				again, err := conversion.Convert("2:03.17", "200_im", "SCY", "LCM", true)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, first)
			}
		})
	})

	Convey("Given a there-and-back conversion", t, func() {
		cases := []struct {
			time  string
			event string
		}{
			{"23.10", "50_free"},
			{"52.48", "100_fly"},
			{"1:02.90", "100_back"},
			{"2:25.33", "200_breast"},
			{"4:20.00", "400_im"},
			{"4:05.00", "400_free"},
			{"16:10.00", "1500_free"},
		}

		Convey("Then the drift is bounded but not necessarily zero", func() {
			for _, c := range cases {
				out, err := conversion.Convert(c.time, c.event, "LCM", "SCY", false)
				So(err, ShouldBeNil)
				back, err := conversion.Convert(out.ConvertedTime, out.MappedEvent, "SCY", "LCM", false)
				So(err, ShouldBeNil)
				So(back.LowConfidence(), ShouldBeFalse)
				So(math.Abs(back.ConvertedSeconds-out.OriginalSeconds), ShouldBeLessThan, 0.5)
			}
		})
	})
}

func TestEngine_BatchConvert(t *testing.T) {
	entries := []conversion.Entry{
		{Time: "1:00.00", Event: "100_free"},
		{Time: "1:0x.00", Event: "100_free"},
		{Time: "30.00", Event: "50_back"},
		{Time: "2:10.50", Event: "200_breast"},
	}

	Convey("Given a batch with one malformed entry", t, func() {
		items := conversion.BatchConvert(entries, "LCM", "SCY", false)

		Convey("Then each position carries its own outcome", func() {
			So(len(items), ShouldEqual, len(entries))
			So(items[1].Err, ShouldNotBeNil)
			So(errors.Is(items[1].Err, swimtime.ErrMalformedTime), ShouldBeTrue)

			for _, i := range []int{0, 2, 3} {
				So(items[i].Err, ShouldBeNil)
				single, err := conversion.Convert(entries[i].Time, entries[i].Event, "LCM", "SCY", false)
				So(err, ShouldBeNil)
				So(items[i].Result, ShouldResemble, single)
			}
		})
	})

	Convey("Given a batch with an unknown course", t, func() {
		items := conversion.BatchConvert(entries, "LCM", "SCX", false)

		Convey("Then every entry fails independently", func() {
			So(len(items), ShouldEqual, len(entries))
			for _, it := range items {
				So(errors.Is(it.Err, course.ErrUnknownCourse), ShouldBeTrue)
			}
		})
	})

	Convey("Given an empty batch", t, func() {
		So(conversion.BatchConvert(nil, "LCM", "SCY", false), ShouldBeEmpty)
	})

	Convey("Given a parallel engine and a large batch", t, func() {
		large := make([]conversion.Entry, 0, 400)
		for i := 0; i < 400; i++ {
			tm := fmt.Sprintf("%d.%02d", 22+i%40, i%100)
			if i%37 == 0 {
				tm = "bad"
			}
			large = append(large, conversion.Entry{Time: tm, Event: []string{"50_free", "100_back", "200_im", "400_free"}[i%4]})
		}
		parallel := conversion.NewEngine(conversion.WithBatchParallelism(8), conversion.WithParallelThreshold(16))

		Convey("Then results match the sequential path", func() {
			got := parallel.BatchConvert(large, "LCM", "SCY", true)
			want := conversion.BatchConvert(large, "LCM", "SCY", true)
			So(len(got), ShouldEqual, len(want))
			for i := range want {
				So(got[i].Result, ShouldResemble, want[i].Result)
				So(got[i].Err == nil, ShouldEqual, want[i].Err == nil)
			}
		})

		Convey("Then a failing entry keeps its own error and the rest still convert", func() {
			got := parallel.BatchConvert(large, "LCM", "SCY", true)
			for i, it := range got {
				if i%37 == 0 {
					So(errors.Is(it.Err, swimtime.ErrMalformedTime), ShouldBeTrue)
					continue
				}
				So(it.Err, ShouldBeNil)
				So(it.Result.ConvertedSeconds, ShouldBeGreaterThan, 0)
			}
		})
	})
}
